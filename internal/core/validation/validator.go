// Package validation wraps go-playground/validator with the console's custom
// tags and turns field errors into messages fit for a notification.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/99minutos/ims-console/internal/core/domain"
)

// PolicyTag names the password policy rule usable in validate tags.
const PolicyTag = "password_policy"

const passwordSymbols = "@$!%*?&#"

var (
	once     sync.Once
	instance *validator.Validate
)

// Validator returns the shared validator with custom tags registered.
func Validator() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "" || name == "-" {
				return f.Name
			}
			return name
		})
		_ = v.RegisterValidation(PolicyTag, func(fl validator.FieldLevel) bool {
			return MeetsPasswordPolicy(fl.Field().String())
		})
		instance = v
	})
	return instance
}

// Struct validates i and returns a *domain.ValidationError describing every
// failed field, or nil.
func Struct(i any) error {
	err := Validator().Struct(i)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		msgs := make([]string, 0, len(ve))
		for _, fe := range ve {
			msgs = append(msgs, fieldError(fe))
		}
		return domain.Invalid("%s", strings.Join(msgs, "; "))
	}
	return err
}

// MeetsPasswordPolicy reports whether pw has at least 8 characters, an
// upper-case letter, a digit and one of @$!%*?&#, and nothing else.
func MeetsPasswordPolicy(pw string) bool {
	if len(pw) < 8 {
		return false
	}
	var upper, digit, symbol bool
	for _, r := range pw {
		switch {
		case r > unicode.MaxASCII:
			return false
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(passwordSymbols, r):
			symbol = true
		case unicode.IsLower(r):
		default:
			return false
		}
	}
	return upper && digit && symbol
}

// fieldError converts a single FieldError into a human-readable message.
func fieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "datetime":
		return fmt.Sprintf("%s must be a date formatted %s", field, fe.Param())
	case "eqfield":
		return fmt.Sprintf("%s must match %s", field, fe.Param())
	case PolicyTag:
		return field + " must be at least 8 characters, contain a number, uppercase letter, and symbol"
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
