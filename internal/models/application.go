package models

type AdmissionStatus string

const (
	AdmissionPending  AdmissionStatus = "pending"
	AdmissionAccepted AdmissionStatus = "accepted"
	AdmissionRejected AdmissionStatus = "rejected"
)

type Admission struct {
	ApplicantName  string          `json:"applicantName"`
	DateOfBirth    string          `json:"dateOfBirth,omitempty"`
	GradeApplied   int             `json:"gradeApplied"`
	GuardianName   string          `json:"guardianName"`
	GuardianEmail  string          `json:"guardianEmail"`
	GuardianPhone  string          `json:"guardianPhone,omitempty"`
	PreviousSchool string          `json:"previousSchool,omitempty"`
	Status         AdmissionStatus `json:"status"`
	Notes          string          `json:"notes,omitempty"`
}
