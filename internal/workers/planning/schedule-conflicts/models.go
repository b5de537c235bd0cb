package scheduleconflicts

type Input struct {
	SchoolName string   `json:"schoolName,omitempty"`
	Courses    []Course `json:"courses"`
}

type Course struct {
	Name     string `json:"name"`
	Teacher  string `json:"teacher"`
	Schedule []Slot `json:"schedule"`
}

type Slot struct {
	Day       string `json:"day"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Room      string `json:"room,omitempty"`
}

const (
	ConflictTeacher = "teacher"
	ConflictRoom    = "room"
	ConflictOverlap = "overlap"
)

type Output struct {
	HasConflicts bool       `json:"hasConflicts"`
	Summary      string     `json:"summary"`
	Conflicts    []Conflict `json:"conflicts"`
}

type Conflict struct {
	Type        string   `json:"type"`
	Courses     []string `json:"courses"`
	Day         string   `json:"day"`
	Time        string   `json:"time"`
	Description string   `json:"description"`
}
