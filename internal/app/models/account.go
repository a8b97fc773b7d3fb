package models

// Account is a login identity stored in the 'users' table
type Account struct {
	ID           int64  `json:"id" db:"id" example:"1"`
	AccountNo    string `json:"account_no" db:"account_no" example:"20230001"`
	PasswordHash string `json:"-" db:"password_hash"`
	Role         Role   `json:"role" db:"role" example:"student"`
}
