package webserver

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

type echoValidator struct {
	validate *validator.Validate
}

func newValidator() *echoValidator {
	v := validator.New()
	// Report wire field names, not Go struct field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return &echoValidator{validate: v}
}

// Validate runs struct tag validation; handlers translate the resulting
// validator.ValidationErrors into field error maps.
func (v *echoValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}
