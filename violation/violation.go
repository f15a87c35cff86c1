// Package violation turns raw validator output into client-facing violations.
//
// A validation engine reports [Constraint] values whose paths use the
// engine's own naming. [Translate] converts each path with a
// [pathconv.Converter], keeping order, and [Group] projects the result into
// [Properties], an insertion-ordered field -> messages mapping.
package violation

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/Gobd/restvalidation/pathconv"
)

// Violation is a single validation failure on a converted field name.
// It is immutable; two violations are equal when field and message match.
type Violation struct {
	field   string
	message string
}

// New returns a Violation for field with message.
func New(field, message string) Violation {
	return Violation{field: field, message: message}
}

// Field returns the converted field name.
func (v Violation) Field() string { return v.field }

// Message returns the human-readable message.
func (v Violation) Message() string { return v.message }

func (v Violation) String() string {
	return v.field + ": " + v.message
}

// MarshalJSON encodes the violation as {"field": ..., "message": ...}.
func (v Violation) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	}{v.field, v.message})
}

// Constraint is a raw violation as produced by a validation engine, before
// its path is converted. Only Path and Message are used for translation.
type Constraint struct {
	Path         string
	Message      string
	InvalidValue any
}

// ConstraintList is the ordered output of one validation run.
type ConstraintList []Constraint

// Err returns nil for an empty list and otherwise an error listing every
// constraint as "path: message".
func (l ConstraintList) Err() error {
	if len(l) == 0 {
		return nil
	}
	parts := make([]string, len(l))
	for i, c := range l {
		parts[i] = c.Path + ": " + c.Message
	}
	return errors.New(strings.Join(parts, "; "))
}

// Translate converts every constraint path with c, in input order.
// Duplicates are kept and a nil converter leaves paths unchanged.
func Translate(raw ConstraintList, c pathconv.Converter) []Violation {
	out := make([]Violation, len(raw))
	for i, r := range raw {
		out[i] = New(pathconv.Apply(c, r.Path), r.Message)
	}
	return out
}
