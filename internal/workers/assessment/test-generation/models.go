package testgeneration

const (
	QuestionMultipleChoice = "multiple_choice"
	QuestionTrueFalse      = "true_false"
	QuestionShortAnswer    = "short_answer"
)

type Input struct {
	Subject       string   `json:"subject"`
	GradeLevel    string   `json:"gradeLevel"`
	Topic         string   `json:"topic"`
	QuestionCount int      `json:"questionCount"`
	Difficulty    string   `json:"difficulty,omitempty"`
	QuestionTypes []string `json:"questionTypes,omitempty"`
}

type Output struct {
	Title     string     `json:"title"`
	Questions []Question `json:"questions"`
}

type Question struct {
	Number  int      `json:"number"`
	Type    string   `json:"type"`
	Text    string   `json:"text"`
	Options []string `json:"options,omitempty"`
	Answer  string   `json:"answer"`
	Points  float64  `json:"points"`
}
