package middleware

import (
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/yigit/sis/internal/pkg/validation"
)

var registerOnce sync.Once

// RegisterValidators installs the custom binding rules on gin's validator.
// Field errors report the JSON name of the field. Safe to call repeatedly.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}

		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})

		_ = v.RegisterValidation("accountno", func(fl validator.FieldLevel) bool {
			return validation.ValidAccountNo(fl.Field().String())
		})
		_ = v.RegisterValidation("coursecode", func(fl validator.FieldLevel) bool {
			return validation.ValidCourseCode(fl.Field().String())
		})
	})
}
