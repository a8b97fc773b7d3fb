package models

// Student is the profile of a student account, keyed by its account number
type Student struct {
	Sno   string `json:"Sno" db:"sno" example:"20230001"`
	Sname string `json:"Sname" db:"sname" example:"Alice"`
	Ssex  string `json:"Ssex" db:"ssex" example:"F"`
	Sage  *int   `json:"Sage" db:"sage" example:"20"`
	Sdept string `json:"Sdept" db:"sdept" example:"CS"`
}

// StudentUpdate holds the optional fields of a profile update; nil means unchanged
type StudentUpdate struct {
	Sname *string
	Ssex  *string
	Sage  *int
	Sdept *string
}

// Empty reports whether no field is set
func (u StudentUpdate) Empty() bool {
	return u.Sname == nil && u.Ssex == nil && u.Sage == nil && u.Sdept == nil
}
