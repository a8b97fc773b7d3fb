package models

// Course is one offering of a course code by a specific teacher
type Course struct {
	Cno     string  `json:"Cno" db:"cno" example:"CS101"`
	Ctno    string  `json:"Ctno" db:"ctno" example:"T0000001"`
	Cname   string  `json:"Cname" db:"cname" example:"Databases"`
	Ccredit float64 `json:"Ccredit" db:"ccredit" example:"3"`
}

// OfferingKey identifies a course offering
type OfferingKey struct {
	Cno string
	Tno string
}
