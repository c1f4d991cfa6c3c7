// Package validation registers the request validators shared by the HTTP
// handlers and turns validator failures into client-facing messages.
package validation

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// EmailTag is the struct tag name of the address check.
const EmailTag = "portfolio_email"

// one "@", no whitespace on either side, at least one dot in the domain
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var registerOnce sync.Once

// IsEmail reports whether s looks like a deliverable address.
func IsEmail(s string) bool {
	return emailPattern.MatchString(strings.TrimSpace(s))
}

// Register installs the custom validators on gin's default validator engine.
// Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation(EmailTag, func(fl validator.FieldLevel) bool {
			return IsEmail(fl.Field().String())
		})
	})
}

// Messages maps a failing tag, or "Field.tag", to the text shown to the client.
type Messages map[string]string

// Describe converts a binding error into one client-facing message.
// Missing required fields are reported before any other failure.
func Describe(err error, msgs Messages) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		switch {
		case errors.As(err, &syntaxErr):
			return "Malformed JSON body"
		case errors.As(err, &typeErr):
			return "Invalid value for field " + typeErr.Field
		}
		return "Invalid request body"
	}

	for _, fe := range verrs {
		if fe.Tag() == "required" {
			return lookup(fe, msgs)
		}
	}
	return lookup(verrs[0], msgs)
}

func lookup(fe validator.FieldError, msgs Messages) string {
	if m, ok := msgs[fe.Field()+"."+fe.Tag()]; ok {
		return m
	}
	if m, ok := msgs[fe.Tag()]; ok {
		return m
	}
	if fe.Tag() == EmailTag {
		return "Invalid email format"
	}
	return fe.Field() + " is invalid"
}
