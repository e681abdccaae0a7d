// Package builder assembles menu options and nodes with fluent builders.
// Every Build call checks struct tags with go-playground/validator and then
// the option's own Validate rules.
package builder

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	menuopts "github.com/goliatone/go-menuopts"
)

// CustomIDRules are the validator rules applied to every custom id. The
// customid rule keeps ids representable in the registry file.
const CustomIDRules = "required,max=128,customid"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return field.Name
		}
		return name
	})
	_ = v.RegisterValidation("customid", validateCustomID)
	return v
}

func validateCustomID(fl validator.FieldLevel) bool {
	id := fl.Field().String()
	if strings.HasPrefix(id, "#") {
		return false
	}
	return !strings.ContainsAny(id, "=\r\n")
}

// check runs tag validation then the option's own rules. Builder errors
// recorded along the way come first.
func check(option menuopts.Option, pending []error) error {
	errs := append([]error(nil), pending...)
	subject := fmt.Sprintf("%s %q", option.Kind(), option.CustomID())

	if err := validate.Var(option.CustomID(), CustomIDRules); err != nil {
		errs = append(errs, translate(subject, "custom_id", err)...)
	}
	if err := validate.Struct(option); err != nil {
		errs = append(errs, translate(subject, "", err)...)
	}
	if len(errs) == 0 {
		if v, ok := option.(menuopts.Validatable); ok {
			if err := v.Validate(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// translate converts validator failures into menuopts.ValidationError values.
func translate(subject, field string, err error) []error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []error{&menuopts.ValidationError{Subject: subject, Field: field, Reason: err.Error()}}
	}
	out := make([]error, 0, len(verrs))
	for _, fe := range verrs {
		name := field
		if name == "" {
			name = fe.Field()
		}
		out = append(out, &menuopts.ValidationError{
			Subject: subject,
			Field:   name,
			Reason:  reason(fe),
		})
	}
	return out
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must have at least %s entries", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s long", fe.Param())
	case "gte":
		return fmt.Sprintf("must be >= %s", fe.Param())
	case "gtefield":
		return fmt.Sprintf("must be >= %s", fe.Param())
	case "ltefield":
		return fmt.Sprintf("must be <= %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	case "customid":
		return "must not start with '#' or contain '=' or line breaks"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
