package validation

import (
	"sort"
	"strings"
)

// Field names a form input.
type Field string

const (
	FieldUsername        Field = "username"
	FieldEmail           Field = "email"
	FieldPassword        Field = "password"
	FieldConfirmPassword Field = "confirmPassword"
	FieldFirstName       Field = "firstName"
	FieldLastName        Field = "lastName"
	FieldIdentifier      Field = "usernameOrEmail"
	FieldTitle           Field = "title"
	FieldDescription     Field = "description"
	FieldDate            Field = "date"
	FieldPriority        Field = "priority"
	FieldStatus          Field = "status"
)

// FieldError is a local, pre-submission rejection of one field.
type FieldError struct {
	Field   Field
	Message string
}

func (e *FieldError) Error() string {
	return string(e.Field) + ": " + e.Message
}

// Errors holds the inline message of every failing field of a form.
type Errors map[Field]string

// Error joins the messages in field order so output is stable.
func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, string(f))
	}
	sort.Strings(fields)
	msgs := make([]string, 0, len(fields))
	for _, f := range fields {
		msgs = append(msgs, f+": "+e[Field(f)])
	}
	return strings.Join(msgs, "; ")
}

// Has reports whether field has a message.
func (e Errors) Has(field Field) bool {
	_, ok := e[field]
	return ok
}

// Err returns nil for an empty set so callers can use the usual err != nil.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

func (e Errors) clone() Errors {
	out := make(Errors, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}
