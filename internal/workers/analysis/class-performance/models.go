package classperformance

type Input struct {
	ClassName        string            `json:"className"`
	Subject          string            `json:"subject"`
	Grades           []GradeEntry      `json:"grades"`
	PreviousAnalysis *PreviousAnalysis `json:"previousAnalysis,omitempty"`
}

type GradeEntry struct {
	StudentName string  `json:"studentName"`
	Score       float64 `json:"score"`
	Assessment  string  `json:"assessment,omitempty"`
}

// PreviousAnalysis is an earlier Output the caller wants compared against.
type PreviousAnalysis struct {
	Date               string `json:"date"`
	Analysis           string `json:"analysis"`
	InterventionNeeded bool   `json:"interventionNeeded"`
}

type Output struct {
	Analysis           string `json:"analysis"`
	Recommendation     string `json:"recommendation"`
	InterventionNeeded bool   `json:"interventionNeeded"`
}
