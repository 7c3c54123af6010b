// Package validators holds the shared request checking used by the per-area validators.
package validators

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("query"), ",", 2)[0]
		}
		return name
	})
	// notblank rejects strings made only of whitespace
	if err := v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	}); err != nil {
		panic(err)
	}
	return v
}

// ParseBody decodes the JSON body into req. An empty body leaves req untouched.
func ParseBody(c *fiber.Ctx, req interface{}) error {
	if len(c.Body()) == 0 {
		return nil
	}
	return c.BodyParser(req)
}

// Check validates req against its struct tags and returns field -> message.
// The map is empty when req is valid.
func Check(req interface{}) map[string]string {
	errs := make(map[string]string)

	err := validate.Struct(req)
	if err == nil {
		return errs
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		errs["body"] = "Invalid request body!"
		return errs
	}
	for _, fe := range fieldErrs {
		field := fieldPath(fe)
		if _, seen := errs[field]; !seen {
			errs[field] = message(field, fe)
		}
	}
	return errs
}

// fieldPath drops the root struct name, keeping nested paths like questions[0].options
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required!", field)
	case "len":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must have exactly %s items!", field, fe.Param())
		}
		return fmt.Sprintf("%s must be %s characters long!", field, fe.Param())
	case "min", "gte":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must have at least %s items!", field, fe.Param())
		}
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters long!", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s!", field, fe.Param())
	case "max", "lte":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters long!", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s!", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s!", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "email":
		return fmt.Sprintf("%s must be a valid email!", field)
	case "url":
		return fmt.Sprintf("%s must be a valid URL!", field)
	case "unique":
		return fmt.Sprintf("%s must not contain duplicates!", field)
	case "notblank":
		return fmt.Sprintf("%s must not be blank!", field)
	}
	return fmt.Sprintf("%s is invalid!", field)
}
