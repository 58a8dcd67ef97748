package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_CourseCodesCollapse(t *testing.T) {
	for _, label := range []string{"COGS 118C", "cogs118c", "Cogs  118c", "  cogs 118C "} {
		key, display := Normalize(label)
		assert.Equal(t, "cogs118c", key, label)
		assert.Equal(t, "COGS 118C", display, label)
	}
}

func TestNormalize_CourseWithoutLetterSuffix(t *testing.T) {
	key, display := Normalize("dsc 120")
	assert.Equal(t, "dsc120", key)
	assert.Equal(t, "DSC 120", display)
}

func TestNormalize_Override(t *testing.T) {
	key, display := Normalize("kdd/ds3/TNT")
	assert.Equal(t, "kdd_ds3_tnt", key)
	assert.Equal(t, "KDD/DS3/TNT", display)
}

func TestNormalize_Fallback(t *testing.T) {
	tests := []struct {
		raw     string
		key     string
		display string
	}{
		{"Training", "training", "Training"},
		{"Data Science", "data_science", "Data Science"},
		{"Data   Science ", "data_science", "Data Science"},
		{"PP", "pp", "PP"},
		{"Grad App", "grad_app", "Grad App"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			key, display := Normalize(tt.raw)
			assert.Equal(t, tt.key, key)
			assert.Equal(t, tt.display, display)
		})
	}
}

func TestNormalize_Deterministic(t *testing.T) {
	labels := []string{"COGS 118C", "Training", "KDD/DS3/TNT", "weird label 2", ""}
	for _, label := range labels {
		k1, d1 := Normalize(label)
		k2, d2 := Normalize(label)
		assert.Equal(t, k1, k2)
		assert.Equal(t, d1, d2)

		// Normalizing a display name again must not move the key.
		k3, _ := Normalize(d1)
		assert.Equal(t, k1, k3, label)
	}
}

func TestComputeMergePlan_GroupsInFirstSeenOrder(t *testing.T) {
	plans := ComputeMergePlan([]string{"Training", "cogs118c", "COGS 118C", "PP", "training"})
	require.Len(t, plans, 3)

	assert.Equal(t, "training", plans[0].Key)
	assert.Equal(t, "Training", plans[0].DisplayName)
	assert.Equal(t, []string{"Training", "training"}, plans[0].SourceLabels)

	assert.Equal(t, "cogs118c", plans[1].Key)
	assert.Equal(t, "COGS 118C", plans[1].DisplayName)
	assert.Equal(t, []string{"cogs118c", "COGS 118C"}, plans[1].SourceLabels)

	assert.Equal(t, "pp", plans[2].Key)
}

func TestComputeMergePlan_DisplayFromFirstLabel(t *testing.T) {
	plans := ComputeMergePlan([]string{"data science", "Data Science"})
	require.Len(t, plans, 1)
	assert.Equal(t, "data science", plans[0].DisplayName)
}

func TestIndex(t *testing.T) {
	idx := Index(ComputeMergePlan([]string{"Math 20B", "math20b", "Reading"}))
	assert.Equal(t, map[string]string{
		"Math 20B": "math20b",
		"math20b":  "math20b",
		"Reading":  "reading",
	}, idx)
}

func TestIsCourseCode(t *testing.T) {
	assert.True(t, IsCourseCode("HILD 11"))
	assert.True(t, IsCourseCode("cse257"))
	assert.False(t, IsCourseCode("Training"))
	assert.False(t, IsCourseCode("118C"))
}
