package models

// StudentProfile holds the student data collected by the request form.
// Once submitted to payment initiation it is frozen for the rest of the
// workflow and embedded verbatim into the issued permit.
type StudentProfile struct {
	StudentID    string `json:"student_id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Course       string `json:"course"`
	Level        string `json:"level"`
	Semester     string `json:"semester"`
	AcademicYear string `json:"academic_year"`
	Phone        string `json:"phone"`
}

// ResolveResult is the resolver's answer for a student identifier lookup.
// Found=false is a normal outcome that sends the caller to manual entry,
// not an error.
type ResolveResult struct {
	Found   bool            `json:"found"`
	Profile *StudentProfile `json:"profile,omitempty"`
	Notice  string          `json:"notice,omitempty"`
}
