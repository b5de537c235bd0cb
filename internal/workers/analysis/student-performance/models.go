package studentperformance

type Input struct {
	StudentName      string             `json:"studentName"`
	ClassName        string             `json:"className"`
	Grades           []SubjectGrade     `json:"grades"`
	Attendance       *AttendanceSummary `json:"attendance,omitempty"`
	PreviousAnalysis *PreviousAnalysis  `json:"previousAnalysis,omitempty"`
}

type SubjectGrade struct {
	Subject    string  `json:"subject"`
	Score      float64 `json:"score"`
	Assessment string  `json:"assessment,omitempty"`
	Date       string  `json:"date,omitempty"`
}

type AttendanceSummary struct {
	Present int `json:"present"`
	Absent  int `json:"absent"`
	Late    int `json:"late"`
}

type PreviousAnalysis struct {
	Date    string `json:"date"`
	Summary string `json:"summary"`
}

const (
	TrendImproving        = "improving"
	TrendDeclining        = "declining"
	TrendStable           = "stable"
	TrendInsufficientData = "insufficient_data"

	RiskLow    = "low"
	RiskMedium = "medium"
	RiskHigh   = "high"
)

type Output struct {
	Summary             string   `json:"summary"`
	Strengths           []string `json:"strengths"`
	AreasForImprovement []string `json:"areasForImprovement"`
	Recommendations     []string `json:"recommendations"`
	OverallTrend        string   `json:"overallTrend"`
	RiskLevel           string   `json:"riskLevel"`
}
