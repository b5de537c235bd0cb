package submissionreview

type Input struct {
	AssignmentTitle string       `json:"assignmentTitle"`
	Subject         string       `json:"subject"`
	Instructions    string       `json:"instructions,omitempty"`
	Submissions     []Submission `json:"submissions"`
}

type Submission struct {
	StudentName string `json:"studentName"`
	Content     string `json:"content"`
}

type Output struct {
	Summary         string   `json:"summary"`
	AverageQuality  float64  `json:"averageQuality"`
	CommonStrengths []string `json:"commonStrengths"`
	CommonIssues    []string `json:"commonIssues"`
	Reviews         []Review `json:"reviews"`
}

type Review struct {
	StudentName string  `json:"studentName"`
	Quality     float64 `json:"quality"`
	Feedback    string  `json:"feedback"`
}
