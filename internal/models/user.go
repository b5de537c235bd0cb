package models

type Role string

const (
	RoleGlobalAdmin Role = "global_admin"
	RoleSchoolAdmin Role = "school_admin"
	RoleTeacher     Role = "teacher"
	RoleStudent     Role = "student"
	RoleParent      Role = "parent"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleGlobalAdmin, RoleSchoolAdmin, RoleTeacher, RoleStudent, RoleParent:
		return true
	}
	return false
}

type User struct {
	ID       string `json:"id"`
	SchoolID string `json:"schoolId,omitempty"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
}

type Student struct {
	Name        string   `json:"name"`
	Email       string   `json:"email,omitempty"`
	ClassID     string   `json:"classId"`
	GuardianIDs []string `json:"guardianIds,omitempty"`
	DateOfBirth string   `json:"dateOfBirth,omitempty"`
	Status      string   `json:"status"` // "active", "graduated", "withdrawn"
}

type Teacher struct {
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Phone    string   `json:"phone,omitempty"`
	Subjects []string `json:"subjects,omitempty"`
}

type Guardian struct {
	Name       string   `json:"name"`
	Email      string   `json:"email,omitempty"`
	Phone      string   `json:"phone,omitempty"`
	StudentIDs []string `json:"studentIds"`
}
