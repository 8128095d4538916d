package canon

// Dimension names, equal to the categorical field names they normalize.
const (
	DimensionYear   = "year"
	DimensionBranch = "branch"
)

// Students register with many spellings of the same year or department.
var academicClasses = []Class{
	{Dimension: DimensionYear, Canonical: "FY", Spellings: []string{
		"FY", "FE", "1", "I", "First Year", "1st Year", "First", "FY.",
	}},
	{Dimension: DimensionYear, Canonical: "SY", Spellings: []string{
		"SY", "SE", "2", "II", "Second Year", "2nd Year", "Second", "SY.",
	}},
	{Dimension: DimensionYear, Canonical: "TY", Spellings: []string{
		"TY", "TE", "3", "III", "Third Year", "3rd Year", "Third", "TY.",
	}},
	{Dimension: DimensionYear, Canonical: "FINAL", Spellings: []string{
		"FINAL", "BE", "4", "IV", "Final Year", "4th Year", "Fourth Year", "Fourth", "FINAL.",
	}},

	{Dimension: DimensionBranch, Canonical: "CSE", Spellings: []string{
		"CSE", "CS", "Computer Science",
	}},
	{Dimension: DimensionBranch, Canonical: "IT", Spellings: []string{
		"IT", "Information Technology",
	}},
	{Dimension: DimensionBranch, Canonical: "ECS", Spellings: []string{
		"ECS", "EC", "ENTC", "Electronics", "E&CS", "E&TC",
	}},
	{Dimension: DimensionBranch, Canonical: "MECH", Spellings: []string{
		"MECH", "Mechanical",
	}},
	{Dimension: DimensionBranch, Canonical: "CIVIL", Spellings: []string{
		"CIVIL",
	}},
	{Dimension: DimensionBranch, Canonical: "AIDS", Spellings: []string{
		"AIDS", "AI&DS", "AI & DS", "AI &DS", "AI& DS", "Artificial Intelligence",
	}},
}

// Academic returns the year and branch registry.
func Academic() *Registry {
	return MustRegistry(academicClasses...)
}
