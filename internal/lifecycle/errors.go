package lifecycle

import "strings"

// FieldErrors maps a field name to its human-readable validation messages.
// It is rendered verbatim in the 422 response envelope.
type FieldErrors map[string][]string

func (e FieldErrors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

func (e FieldErrors) Error() string {
	var b strings.Builder
	b.WriteString("validation failed:")
	for field, msgs := range e {
		b.WriteString(" " + field + ": " + strings.Join(msgs, "; "))
	}
	return b.String()
}

// AsFieldErrors extracts a FieldErrors from err if it is one.
func AsFieldErrors(err error) (FieldErrors, bool) {
	fe, ok := err.(FieldErrors)
	return fe, ok
}
