package ingest

// Record is the persisted audit row for one ingest run.
type Record struct {
	ID              string
	ScenarioID      string
	InputHash       string
	HierarchyLevel  string
	DocumentType    string
	SourceFormat    string
	Confidence      float64
	Title           string
	ParentLinkID    *string
	CreatedCounts   string
	ReviewFlagCount int
	ParseTimeMs     int64
	Status          string
	Error           string
}
