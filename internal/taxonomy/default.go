package taxonomy

// Default returns the built-in curated taxonomy.
func Default() *Taxonomy {
	t, err := New(defaultProjects(), defaultDepartments())
	if err != nil {
		panic(err) // built-in tables are static
	}
	return t
}

func defaultProjects() []Family {
	return []Family{
		{Key: "training", DisplayName: "Training", Type: TypePersonal, Color: "#EF4444"},
		{Key: "salk", DisplayName: "Salk Research", Type: TypeResearch, Color: "#3B82F6"},
		{Key: "mpi", DisplayName: "MPI Research", Type: TypeResearch, Color: "#8B5CF6"},
		{Key: "pp", DisplayName: "Personal Projects", Type: TypePersonal, Color: "#F59E0B"},
		{Key: "reading", DisplayName: "Reading", Type: TypePersonal, Color: "#10B981"},
		{Key: "swl", DisplayName: "SWL Research", Type: TypeResearch, Color: "#06B6D4"},
		{Key: "fmp", DisplayName: "FMP Research", Type: TypeResearch, Color: "#EC4899"},
		{Key: "cse 257", DisplayName: "CSE 257", Type: TypeCourse, Color: "#6366F1"},
		{Key: "rplh", DisplayName: "RPLH", Type: TypeResearch},
		{Key: "data science", DisplayName: "Data Science", Type: TypeResearch},
		{Key: "fd", DisplayName: "Future Directions", Type: TypeResearch},
	}
}

func defaultDepartments() []Family {
	return []Family{
		{Key: "cogs", DisplayName: "COGS", Type: TypeCourse, Color: "#A855F7"},
		{Key: "cse", DisplayName: "CSE", Type: TypeCourse, Color: "#6366F1"},
		{Key: "dsc", DisplayName: "DSC", Type: TypeCourse, Color: "#0EA5E9"},
		{Key: "math", DisplayName: "Math", Type: TypeCourse, Color: "#F97316"},
		{Key: "psyc", DisplayName: "PSYC", Type: TypeCourse, Color: "#D946EF"},
		{Key: "bild", DisplayName: "BILD", Type: TypeCourse, Color: "#84CC16"},
		{Key: "ece", DisplayName: "ECE", Type: TypeCourse, Color: "#14B8A6"},
		{Key: "mus", DisplayName: "MUS", Type: TypeCourse, Color: "#F43F5E"},
		{Key: "chem", DisplayName: "CHEM", Type: TypeCourse, Color: "#22C55E"},
		{Key: "doc", DisplayName: "DOC", Type: TypeCourse, Color: "#78716C"},
		{Key: "hild", DisplayName: "HILD", Type: TypeCourse, Color: "#78716C"},
	}
}
