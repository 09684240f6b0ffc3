// Package validation evaluates account and task form input before anything is
// sent to the server. Rules are go-playground/validator tags; the custom tags
// registered by RegisterRules are shared with the server's request validation.
package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Tag sets for single-field checks. Order matters: validator stops at the
// first failing tag, which gives "first failing rule wins".
const (
	UsernameRules = "required,min=3,max=50,username"
	EmailRules    = "required,simpleemail"
	PasswordRules = "required,min=6,haslower,hasupper,hasdigit"
)

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

var customRules = map[string]validator.Func{
	"username": func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	},
	"simpleemail": func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	},
	"haslower": func(fl validator.FieldLevel) bool {
		return strings.ContainsFunc(fl.Field().String(), isASCIILower)
	},
	"hasupper": func(fl validator.FieldLevel) bool {
		return strings.ContainsFunc(fl.Field().String(), isASCIIUpper)
	},
	"hasdigit": func(fl validator.FieldLevel) bool {
		return strings.ContainsFunc(fl.Field().String(), isASCIIDigit)
	},
}

// Character classes are ASCII only, like [a-z], [A-Z] and \d.
func isASCIILower(r rune) bool { return 'a' <= r && r <= 'z' }
func isASCIIUpper(r rune) bool { return 'A' <= r && r <= 'Z' }
func isASCIIDigit(r rune) bool { return '0' <= r && r <= '9' }

// RegisterRules adds the account rule tags to v.
func RegisterRules(v *validator.Validate) error {
	for tag, fn := range customRules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := RegisterRules(v); err != nil {
		panic(err)
	}
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("form"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

var messages = map[Field]map[string]string{
	FieldUsername: {
		"required": "Username is required",
		"min":      "Username must be at least 3 characters long",
		"max":      "Username must not exceed 50 characters",
		"username": "Username can only contain letters, numbers, hyphens, and underscores",
	},
	FieldEmail: {
		"required":    "Email is required",
		"simpleemail": "Please enter a valid email address",
	},
	FieldPassword: {
		"required": "Password is required",
		"min":      "Password must be at least 6 characters long",
		"haslower": "Password must contain at least one lowercase letter",
		"hasupper": "Password must contain at least one uppercase letter",
		"hasdigit": "Password must contain at least one number",
	},
	FieldConfirmPassword: {
		"required": "Please confirm your password",
		"eqfield":  "Passwords do not match",
	},
	FieldFirstName:   {"required": "First name is required"},
	FieldIdentifier:  {"required": "Username or email is required"},
	FieldTitle:       {"required": "Title is required"},
	FieldDescription: {"required": "Description is required"},
	FieldDate:        {"required": "Due date is required"},
}

func message(field Field, tag string) string {
	if msg, ok := messages[field][tag]; ok {
		return msg
	}
	return string(field) + " is invalid"
}

// checkVar validates a single value against rules.
func checkVar(field Field, value, rules string) error {
	err := validate.Var(value, rules)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		return &FieldError{Field: field, Message: message(field, ve[0].Tag())}
	}
	return &FieldError{Field: field, Message: err.Error()}
}

// checkStruct validates a form struct and collects one message per field.
func checkStruct(s any) Errors {
	errs := Errors{}
	err := validate.Struct(s)
	if err == nil {
		return errs
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		errs["form"] = err.Error()
		return errs
	}
	for _, fe := range ve {
		field := Field(fe.Field())
		if _, seen := errs[field]; !seen {
			errs[field] = message(field, fe.Tag())
		}
	}
	return errs
}

// ValidateUsername checks length (3-50) and charset [a-zA-Z0-9_-].
func ValidateUsername(username string) error {
	return checkVar(FieldUsername, username, UsernameRules)
}

// ValidateEmail checks the local@domain.tld shape.
func ValidateEmail(email string) error {
	return checkVar(FieldEmail, email, EmailRules)
}

// IsValidEmail reports whether email has the local@domain.tld shape.
func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidatePassword checks length, then lowercase, uppercase and digit, in
// that order, returning the first unmet rule.
func ValidatePassword(password string) error {
	return checkVar(FieldPassword, password, PasswordRules)
}

// blankToEmpty maps whitespace-only input to "" so required rules catch it.
func blankToEmpty(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	return s
}
