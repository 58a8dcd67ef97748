package normalize

// MergePlan records which raw labels collapse onto one merge key.
type MergePlan struct {
	Key         string
	DisplayName string
	// SourceLabels are the contributing raw labels in first-seen order.
	SourceLabels []string
}

// ComputeMergePlan groups raw labels by merge key. The returned slice is in
// first-seen key order; the display name of each plan comes from the first
// label that produced its key. Repeated identical labels are recorded once.
func ComputeMergePlan(labels []string) []*MergePlan {
	var plans []*MergePlan
	byKey := make(map[string]*MergePlan)

	for _, label := range labels {
		key, display := Normalize(label)

		plan, ok := byKey[key]
		if !ok {
			plan = &MergePlan{Key: key, DisplayName: display}
			byKey[key] = plan
			plans = append(plans, plan)
		}
		if !contains(plan.SourceLabels, label) {
			plan.SourceLabels = append(plan.SourceLabels, label)
		}
	}

	return plans
}

// Index maps every source label in plans to its merge key.
func Index(plans []*MergePlan) map[string]string {
	idx := make(map[string]string)
	for _, p := range plans {
		for _, label := range p.SourceLabels {
			idx[label] = p.Key
		}
	}
	return idx
}

func contains(items []string, s string) bool {
	for _, item := range items {
		if item == s {
			return true
		}
	}
	return false
}
