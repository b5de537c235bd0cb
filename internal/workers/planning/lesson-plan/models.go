package lessonplan

type Input struct {
	Subject            string   `json:"subject"`
	GradeLevel         string   `json:"gradeLevel"`
	Topic              string   `json:"topic"`
	LearningObjectives []string `json:"learningObjectives,omitempty"`
	Notes              string   `json:"notes,omitempty"`
}

type Output struct {
	Title    string `json:"title"`
	Overview string `json:"overview"`
	Days     []Day  `json:"days"`
}

type Day struct {
	Day        int      `json:"day"`
	Topic      string   `json:"topic"`
	Objectives []string `json:"objectives"`
	Activities []string `json:"activities"`
	Materials  []string `json:"materials"`
	Assessment string   `json:"assessment"`
}
