package models

// Teacher is the profile of a teacher account, keyed by its account number
type Teacher struct {
	Tno   string  `json:"Tno" db:"tno" example:"T0000001"`
	Tname string  `json:"Tname" db:"tname" example:"Dr. Smith"`
	Tdept *string `json:"Tdept" db:"tdept" example:"CS"`
	Tsex  *string `json:"Tsex" db:"tsex" example:"M"`
}

// TeacherUpdate holds the optional fields of a profile update; nil means unchanged
type TeacherUpdate struct {
	Tname *string
	Tdept *string
	Tsex  *string
}

// Empty reports whether no field is set
func (u TeacherUpdate) Empty() bool {
	return u.Tname == nil && u.Tdept == nil && u.Tsex == nil
}
