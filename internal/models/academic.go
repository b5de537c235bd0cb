package models

type Class struct {
	Name       string   `json:"name"`
	GradeLevel int      `json:"gradeLevel"`
	TeacherID  string   `json:"teacherId"`
	StudentIDs []string `json:"studentIds,omitempty"`
}

type ScheduleSlot struct {
	Day       string `json:"day"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Room      string `json:"room,omitempty"`
}

type Course struct {
	Name      string         `json:"name"`
	Subject   string         `json:"subject"`
	ClassID   string         `json:"classId"`
	TeacherID string         `json:"teacherId"`
	Schedule  []ScheduleSlot `json:"schedule"`
}

type Grade struct {
	StudentID   string  `json:"studentId"`
	StudentName string  `json:"studentName"`
	ClassID     string  `json:"classId"`
	Subject     string  `json:"subject"`
	Assessment  string  `json:"assessment"`
	Score       float64 `json:"score"`
	MaxScore    float64 `json:"maxScore"`
	Date        string  `json:"date"`
}

// Percent returns the grade scaled to 0..100. A zero MaxScore is treated as 100.
func (g Grade) Percent() float64 {
	if g.MaxScore <= 0 {
		return g.Score
	}
	return g.Score / g.MaxScore * 100
}

type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceLate    AttendanceStatus = "late"
	AttendanceExcused AttendanceStatus = "excused"
)

type AttendanceRecord struct {
	StudentID   string           `json:"studentId"`
	StudentName string           `json:"studentName"`
	ClassID     string           `json:"classId"`
	Date        string           `json:"date"`
	Status      AttendanceStatus `json:"status"`
}
