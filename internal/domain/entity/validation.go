package entity

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/damon-houk/cnb-exchange-rates/internal/apperrors"
	"github.com/go-playground/validator/v10"
)

// isoDateTimeZ accepts YYYY-MM-DDTHH:MM:SS with optional fractional seconds and a literal Z
var isoDateTimeZ = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d+)?Z$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report JSON field names in violations
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation("isodatetimez", validateISODateTimeZ); err != nil {
		panic(fmt.Sprintf("register isodatetimez validation: %v", err))
	}

	return v
}

func validateISODateTimeZ(fl validator.FieldLevel) bool {
	return IsISODateTimeZ(fl.Field().String())
}

// IsISODateTimeZ reports whether s is a strict ISO-8601 datetime in UTC with a Z designator
func IsISODateTimeZ(s string) bool {
	if !isoDateTimeZ.MatchString(s) {
		return false
	}
	_, err := time.Parse(time.RFC3339Nano, s)
	return err == nil
}

// toViolations flattens validator errors into apperrors violations, dropping the root struct name
func toViolations(err error) []apperrors.Violation {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []apperrors.Violation{{Field: "", Rule: "invalid", Value: err.Error()}}
	}

	violations := make([]apperrors.Violation, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Namespace()
		if i := strings.Index(field, "."); i >= 0 {
			field = field[i+1:]
		}
		violations = append(violations, apperrors.Violation{
			Field: field,
			Rule:  fe.Tag(),
			Param: fe.Param(),
			Value: fmt.Sprint(fe.Value()),
		})
	}
	return violations
}
