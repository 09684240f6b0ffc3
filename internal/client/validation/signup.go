package validation

import (
	"context"
	"sync"
	"unicode/utf8"

	"github.com/tasktrack/tasktrack/internal/core/ports"
)

// Status is the live, per-keystroke verdict shown next to a field.
type Status string

const (
	StatusIdle     Status = ""
	StatusValid    Status = "valid"
	StatusTaken    Status = "taken"
	StatusInvalid  Status = "invalid"
	StatusError    Status = "error"
	StatusWeak     Status = "weak"
	StatusMismatch Status = "mismatch"
)

type signupInput struct {
	Username  string `form:"username"        validate:"required,min=3,max=50,username"`
	Email     string `form:"email"           validate:"required,simpleemail"`
	Password  string `form:"password"        validate:"required,min=6,haslower,hasupper,hasdigit"`
	Confirm   string `form:"confirmPassword" validate:"required,eqfield=Password"`
	FirstName string `form:"firstName"       validate:"required"`
	LastName  string `form:"lastName"`
}

// SignupForm holds registration input with live field status and
// submission-time errors. Availability probes carry a per-field generation so
// a response that was overtaken by newer input is dropped.
type SignupForm struct {
	checker ports.AvailabilityChecker

	mu     sync.Mutex
	values map[Field]string
	status map[Field]Status
	errs   Errors
	gen    map[Field]uint64
}

// NewSignupForm returns an empty form probing availability through checker.
func NewSignupForm(checker ports.AvailabilityChecker) *SignupForm {
	return &SignupForm{
		checker: checker,
		values:  make(map[Field]string),
		status:  make(map[Field]Status),
		errs:    Errors{},
		gen:     make(map[Field]uint64),
	}
}

// Set records a new value for field, clears its inline error and re-runs the
// live check. Username and email checks may block on the availability probe;
// callers that must not wait run Set in a goroutine.
func (f *SignupForm) Set(ctx context.Context, field Field, value string) Status {
	f.mu.Lock()
	f.values[field] = value
	delete(f.errs, field)
	f.gen[field]++
	gen := f.gen[field]

	var probe func(context.Context, string) (bool, error)
	switch field {
	case FieldUsername:
		switch {
		case utf8.RuneCountInString(value) < 3:
			f.status[field] = StatusIdle
		case ValidateUsername(value) != nil:
			f.status[field] = StatusInvalid
		default:
			probe = f.checker.CheckUsername
		}
	case FieldEmail:
		switch {
		case value == "":
			f.status[field] = StatusIdle
		case !IsValidEmail(value):
			f.status[field] = StatusInvalid
		default:
			probe = f.checker.CheckEmail
		}
	case FieldPassword:
		f.status[field] = passwordStatus(value)
		f.status[FieldConfirmPassword] = confirmStatus(value, f.values[FieldConfirmPassword])
	case FieldConfirmPassword:
		f.status[field] = confirmStatus(f.values[FieldPassword], value)
	}

	if probe == nil {
		st := f.status[field]
		f.mu.Unlock()
		return st
	}
	f.mu.Unlock()

	available, err := probe(ctx, value)

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.gen[field] != gen {
		return f.status[field]
	}
	switch {
	case err != nil:
		f.status[field] = StatusError
	case available:
		f.status[field] = StatusValid
	default:
		f.status[field] = StatusTaken
	}
	return f.status[field]
}

func passwordStatus(password string) Status {
	switch {
	case password == "":
		return StatusIdle
	case ValidatePassword(password) != nil:
		return StatusWeak
	default:
		return StatusValid
	}
}

func confirmStatus(password, confirm string) Status {
	switch {
	case confirm == "":
		return StatusIdle
	case confirm != password:
		return StatusMismatch
	default:
		return StatusValid
	}
}

// Status returns the live verdict for field.
func (f *SignupForm) Status(field Field) Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status[field]
}

// Value returns the current value of field.
func (f *SignupForm) Value(field Field) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values[field]
}

// Errors returns a copy of the inline errors from the last Validate.
func (f *SignupForm) Errors() Errors {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errs.clone()
}

// Validate runs every rule and records the inline messages. It reports
// whether the form may be submitted.
func (f *SignupForm) Validate() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.errs = checkStruct(signupInput{
		Username:  blankToEmpty(f.values[FieldUsername]),
		Email:     blankToEmpty(f.values[FieldEmail]),
		Password:  f.values[FieldPassword],
		Confirm:   f.values[FieldConfirmPassword],
		FirstName: blankToEmpty(f.values[FieldFirstName]),
		LastName:  f.values[FieldLastName],
	})
	return len(f.errs) == 0
}

// Input returns the registration payload built from the current values.
func (f *SignupForm) Input() ports.RegisterInput {
	f.mu.Lock()
	defer f.mu.Unlock()
	return ports.RegisterInput{
		Username:  f.values[FieldUsername],
		Email:     f.values[FieldEmail],
		Password:  f.values[FieldPassword],
		FirstName: f.values[FieldFirstName],
		LastName:  f.values[FieldLastName],
	}
}
