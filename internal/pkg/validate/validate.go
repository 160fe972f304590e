// Package validate wires request validation into gin binding and turns
// validator errors into the single human-readable message the API returns.
package validate

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const maxPhoneDigits = 15

var (
	registerOnce sync.Once
	phonePattern = regexp.MustCompile(`^[0-9+\-() ]+$`)
)

// PhoneMessage is reported when a phone number fails the "phone" tag.
const PhoneMessage = "Phone number can only contain numbers and phone characters (+, -, spaces, parentheses), and cannot exceed 15 digits"

// Register installs the custom tags and JSON field naming on gin's
// validator. Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(fieldName)
		_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
			return Phone(fl.Field().String())
		})
	})
}

// Phone reports whether s contains only digits and phone punctuation and
// has at most 15 digits. Empty input is valid.
func Phone(s string) bool {
	if s == "" {
		return true
	}
	if !phonePattern.MatchString(s) {
		return false
	}
	digits := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	return digits <= maxPhoneDigits
}

func fieldName(f reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return f.Name
}

// Messages maps "field.tag" (or just "field") to the message reported for
// that failure.
type Messages map[string]string

// Translate returns the message for the first failing field of err.
func (m Messages) Translate(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		if msg, ok := m[fe.Field()+"."+fe.Tag()]; ok {
			return msg
		}
		if msg, ok := m[fe.Field()]; ok {
			return msg
		}
		return defaultMessage(fe)
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return fmt.Sprintf("%s has an invalid type", humanize(typeErr.Field))
	}
	return "Invalid request body"
}

func defaultMessage(fe validator.FieldError) string {
	name := humanize(fe.Field())
	switch fe.Tag() {
	case "required":
		return name + " is required"
	case "email":
		return "Invalid email address"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", name, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", name, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", name, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", name, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", name, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "url":
		return "Invalid URL"
	case "phone":
		return PhoneMessage
	}
	return name + " is invalid"
}

func humanize(field string) string {
	s := strings.ReplaceAll(field, "_", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
