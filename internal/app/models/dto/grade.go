package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/yigit/sis/internal/app/models"
)

// Grade bounds
const (
	MinGrade = 0
	MaxGrade = 100
)

// GradeInput is a grade as sent by clients: JSON null, "", an integer, or a
// numeric string. Null and "" clear the grade.
type GradeInput struct {
	raw string
	set bool
}

// UnmarshalJSON implements json.Unmarshaler
func (g *GradeInput) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*g = GradeInput{}

	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		g.raw = strings.TrimSpace(s)
		g.set = g.raw != ""
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("grade must be a number, a numeric string, or null")
	}
	g.raw = n.String()
	g.set = true
	return nil
}

// NewGradeInput builds an input from its string form; "" means clear
func NewGradeInput(s string) GradeInput {
	s = strings.TrimSpace(s)
	return GradeInput{raw: s, set: s != ""}
}

// Value parses the grade. A nil result clears the grade. Non-integer or
// out-of-range input is an error.
func (g GradeInput) Value() (*int, error) {
	if !g.set {
		return nil, nil
	}

	n, err := strconv.Atoi(g.raw)
	if err != nil {
		return nil, fmt.Errorf("grade %q is not an integer", g.raw)
	}
	if n < MinGrade || n > MaxGrade {
		return nil, fmt.Errorf("grade must be between %d and %d", MinGrade, MaxGrade)
	}
	return &n, nil
}

// FormatGrade renders a stored grade; nil stays nil so "0" and absent differ.
func FormatGrade(grade *int) *string {
	if grade == nil {
		return nil
	}
	s := strconv.Itoa(*grade)
	return &s
}

// SetGradeRequest is the body of grade updates
type SetGradeRequest struct {
	Grade GradeInput `json:"grade"`
}

// GradeResponse reports an enrollment after a grade change
type GradeResponse struct {
	Sno   string  `json:"Sno" example:"20230001"`
	Cno   string  `json:"Cno" example:"CS101"`
	Tno   string  `json:"Tno" example:"T0000001"`
	Grade *string `json:"grade" example:"95"`
}

// NewGradeResponse converts a stored enrollment
func NewGradeResponse(e *models.Enrollment) GradeResponse {
	return GradeResponse{
		Sno:   e.Sno,
		Cno:   e.Cno,
		Tno:   e.Tno,
		Grade: FormatGrade(e.Grade),
	}
}
