package models

// Enrollment is a student's registration in one offering. Grade is nil until graded.
type Enrollment struct {
	Sno   string `db:"sno"`
	Cno   string `db:"cno"`
	Tno   string `db:"tno"`
	Grade *int   `db:"grade"`
}

// EnrollmentKey identifies an enrollment record
type EnrollmentKey struct {
	Sno string
	Cno string
	Tno string
}

// EnrollmentDetail is an enrollment joined with student, course and teacher names
type EnrollmentDetail struct {
	Enrollment
	Sname   string
	Cname   string
	Ccredit float64
	Tname   string
}

// EnrollmentFilter narrows the joined enrollment query; empty fields do not filter
type EnrollmentFilter struct {
	Sno string
	Cno string
	Tno string
	// Search matches a substring of the student number or name
	Search string
}
