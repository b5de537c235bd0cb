package models

// EntityType names one collection in the school record store. Each value is
// also the Postgres table name of its repository.
type EntityType string

const (
	EntityStudents   EntityType = "students"
	EntityTeachers   EntityType = "teachers"
	EntityGuardians  EntityType = "guardians"
	EntityClasses    EntityType = "classes"
	EntityCourses    EntityType = "courses"
	EntityGrades     EntityType = "grades"
	EntityAttendance EntityType = "attendance"
	EntityInvoices   EntityType = "invoices"
	EntityAdmissions EntityType = "admissions"
)

func (e EntityType) String() string {
	return string(e)
}

// AllEntities lists every entity in migration order.
var AllEntities = []EntityType{
	EntityStudents,
	EntityTeachers,
	EntityGuardians,
	EntityClasses,
	EntityCourses,
	EntityGrades,
	EntityAttendance,
	EntityInvoices,
	EntityAdmissions,
}
