package testgrading

// MaxScore is the scale every graded test is reported on.
const MaxScore = 20.0

type Input struct {
	StudentName string             `json:"studentName"`
	TestTitle   string             `json:"testTitle"`
	Questions   []AnsweredQuestion `json:"questions"`
}

type AnsweredQuestion struct {
	Text          string `json:"text"`
	CorrectAnswer string `json:"correctAnswer"`
	StudentAnswer string `json:"studentAnswer"`
}

type Output struct {
	CorrectCount    int              `json:"correctCount"`
	Score           float64          `json:"score"`
	Feedback        string           `json:"feedback"`
	QuestionResults []QuestionResult `json:"questionResults"`
}

type QuestionResult struct {
	Number  int    `json:"number"`
	Correct bool   `json:"correct"`
	Comment string `json:"comment"`
}
