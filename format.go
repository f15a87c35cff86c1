package restvalidation

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/asaskevich/govalidator"
	"github.com/getkin/kin-openapi/openapi3"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type stringRule struct {
	validation.StringRule
	desc   string
	format string
}

// NewStringRuleWithError returns a string validation rule with a custom error and schema description.
func NewStringRuleWithError(validator func(string) bool, err validation.Error, desc string) Rule {
	return stringRule{
		StringRule: validation.NewStringRuleWithError(validator, err),
		desc:       desc,
	}
}

// NewStringRule returns a string validation rule using desc as both the error message and schema description.
func NewStringRule(validator func(string) bool, desc string) Rule {
	return stringRule{
		StringRule: validation.NewStringRule(validator, desc),
		desc:       desc,
	}
}

// NewStringRuleDecimalMax returns a validation rule that limits the number of decimal places in a numeric string.
func NewStringRuleDecimalMax(i uint) Rule {
	return NewStringRule(func(s string) bool {
		_, frac, ok := strings.Cut(s, ".")
		return !ok || len(frac) <= int(i)
	}, fmt.Sprintf("no more than %d decimals", i))
}

func formatRule(validator func(string) bool, desc, format string) Rule {
	return stringRule{
		StringRule: validation.NewStringRule(validator, desc),
		desc:       desc,
		format:     format,
	}
}

// Format rules backed by govalidator. Empty strings pass; combine with
// [Required] to reject them.
var (
	Email        = formatRule(govalidator.IsEmail, "must be a valid email address", "email")
	URL          = formatRule(govalidator.IsURL, "must be a valid URL", "uri")
	UUID         = formatRule(govalidator.IsUUID, "must be a valid UUID", "uuid")
	Alphanumeric = formatRule(govalidator.IsAlphanumeric, "must contain only letters and digits", "")
)

// Match returns a rule that requires strings to match re.
func Match(re *regexp.Regexp, desc string) Rule {
	return stringRule{
		StringRule: validation.NewStringRule(re.MatchString, desc),
		desc:       desc,
	}
}

func (r stringRule) Describe(_ string, _ *openapi3.Schema, ref *openapi3.SchemaRef) error {
	if r.format != "" {
		ref.Value.Format = r.format
		return nil
	}
	appendDescription(ref, r.desc)
	return nil
}

// DateRule requires strings to parse with a time layout. Use [Date] to
// create one.
type DateRule struct {
	validation.DateRule
	layout   string
	min, max time.Time
}

// Date returns a rule requiring strings in layout. Empty strings pass.
func Date(layout string) *DateRule {
	return &DateRule{DateRule: validation.Date(layout), layout: layout}
}

// Min rejects dates before t.
func (r *DateRule) Min(t time.Time) *DateRule {
	r.min = t
	r.DateRule = r.DateRule.Min(t)
	return r
}

// Max rejects dates after t.
func (r *DateRule) Max(t time.Time) *DateRule {
	r.max = t
	r.DateRule = r.DateRule.Max(t)
	return r
}

func (r *DateRule) Describe(_ string, _ *openapi3.Schema, ref *openapi3.SchemaRef) error {
	switch r.layout {
	case time.DateOnly:
		ref.Value.Format = "date"
	case time.RFC3339, time.RFC3339Nano:
		ref.Value.Format = "date-time"
	default:
		appendDescription(ref, "layout "+r.layout)
	}
	if !r.min.IsZero() {
		appendDescription(ref, "not before "+r.min.Format(r.layout))
	}
	if !r.max.IsZero() {
		appendDescription(ref, "not after "+r.max.Format(r.layout))
	}
	return nil
}
