package attendanceinsights

type Input struct {
	ClassName string            `json:"className"`
	Period    string            `json:"period"`
	Records   []AttendanceEntry `json:"records"`
}

type AttendanceEntry struct {
	StudentName string `json:"studentName"`
	Date        string `json:"date"`
	Status      string `json:"status"` // present, absent, late, excused
}

type Output struct {
	AttendanceRate  float64         `json:"attendanceRate"`
	Summary         string          `json:"summary"`
	Patterns        []string        `json:"patterns"`
	AtRiskStudents  []AtRiskStudent `json:"atRiskStudents"`
	Recommendations []string        `json:"recommendations"`
}

type AtRiskStudent struct {
	StudentName string `json:"studentName"`
	Absences    int    `json:"absences"`
	Reason      string `json:"reason"`
}
