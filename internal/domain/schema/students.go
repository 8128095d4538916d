package schema

// Student field names.
const (
	FieldBranch          = "branch"
	FieldYear            = "year"
	FieldName            = "name"
	FieldPRSScore        = "prs_score"
	FieldCGPA            = "cgpa"
	FieldGithubScore     = "github_score"
	FieldLinkedinScore   = "linkedin_score"
	FieldResumeScore     = "resume_score"
	FieldAptitudeScore   = "aptitude_score"
	FieldCodingScore     = "coding_score"
	FieldSoftskillsScore = "softskills_score"
)

// StudentEntries returns the queryable fields of student records.
// Scores collected from profile uploads live in the scores sub-document,
// the GitHub score inside github_analysis.
func StudentEntries() []Entry {
	return []Entry{
		{Name: FieldBranch, Type: Category, Path: "branch"},
		{Name: FieldYear, Type: Category, Path: "year"},
		{Name: FieldName, Type: String, Path: "name"},
		{Name: FieldPRSScore, Type: Number, Path: "prs_score"},
		{Name: FieldCGPA, Type: Number, Path: "cgpa"},
		{Name: FieldGithubScore, Type: Number, Path: "github_analysis.github_score"},
		{Name: FieldLinkedinScore, Type: Number, Path: "scores.linkedin"},
		{Name: FieldResumeScore, Type: Number, Path: "scores.resume"},
		{Name: FieldAptitudeScore, Type: Number, Path: "scores.aptitude"},
		{Name: FieldCodingScore, Type: Number, Path: "scores.coding"},
		{Name: FieldSoftskillsScore, Type: Number, Path: "scores.softskills"},
	}
}

// Students builds the student whitelist with the given native addressing.
func Students(addr Addresser) *Whitelist {
	return MustWhitelist(addr, StudentEntries()...)
}
