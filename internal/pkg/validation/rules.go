package validation

import (
	"regexp"
)

// Validation rule patterns
var (
	// Account numbers: 1 to 8 letters or digits
	AccountNoPattern = `^[A-Za-z0-9]{1,8}$`

	// Course codes: letters, digits, dash and underscore
	CourseCodePattern = `^[A-Za-z0-9_\-]{1,32}$`

	AccountNoMaxLength = 8
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	AccountNo  *regexp.Regexp
	CourseCode *regexp.Regexp
}{
	AccountNo:  regexp.MustCompile(AccountNoPattern),
	CourseCode: regexp.MustCompile(CourseCodePattern),
}

// ValidAccountNo reports whether s is a well-formed account number
func ValidAccountNo(s string) bool {
	return NewStringValidation(s).
		WithMaxLength(AccountNoMaxLength).
		WithPattern(CompiledPatterns.AccountNo).
		Validate()
}

// ValidCourseCode reports whether s is a well-formed course code
func ValidCourseCode(s string) bool {
	return NewStringValidation(s).WithPattern(CompiledPatterns.CourseCode).Validate()
}

// String validation
type StringValidation struct {
	Value   string
	MaxLen  int
	Pattern *regexp.Regexp
}

// NewStringValidation creates a new string validation
func NewStringValidation(value string) *StringValidation {
	return &StringValidation{Value: value}
}

// WithMaxLength sets maximum length
func (v *StringValidation) WithMaxLength(max int) *StringValidation {
	v.MaxLen = max
	return v
}

// WithPattern sets regex pattern
func (v *StringValidation) WithPattern(pattern *regexp.Regexp) *StringValidation {
	v.Pattern = pattern
	return v
}

// Validate performs validation
func (v *StringValidation) Validate() bool {
	// Values are always required
	if v.Value == "" {
		return false
	}

	if v.MaxLen > 0 && len(v.Value) > v.MaxLen {
		return false
	}

	if v.Pattern != nil && !v.Pattern.MatchString(v.Value) {
		return false
	}

	return true
}
