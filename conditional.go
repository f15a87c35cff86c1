package restvalidation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// WhenRule applies its rules only when a condition holds, and the rules
// given to [WhenRule.Else] otherwise. Use [When] to create one.
type WhenRule struct {
	condition bool
	desc      string
	then      []Rule
	otherwise []Rule
}

// When returns a rule that applies rules only when condition is true. desc
// names the condition in the schema description.
func When(condition bool, desc string, rules ...Rule) *WhenRule {
	return &WhenRule{condition: condition, desc: desc, then: rules}
}

// Else sets the rules applied when the condition is false.
func (r *WhenRule) Else(rules ...Rule) *WhenRule {
	r.otherwise = rules
	return r
}

// Validate returns the first failure of the active rules.
func (r *WhenRule) Validate(value any) error {
	rules := r.then
	if !r.condition {
		rules = r.otherwise
	}
	return validation.Validate(value, convertRules(rules...)...)
}

// Describe summarizes both branches in the schema description.
func (r *WhenRule) Describe(name string, _ *openapi3.Schema, ref *openapi3.SchemaRef) error {
	then, err := summarize(name, r.then)
	if err != nil {
		return err
	}
	otherwise, err := summarize(name, r.otherwise)
	if err != nil {
		return err
	}
	if then != "" {
		if r.desc != "" {
			then = fmt.Sprintf("when %s: %s", r.desc, then)
		}
		appendDescription(ref, then)
	}
	if otherwise != "" {
		appendDescription(ref, "else: "+otherwise)
	}
	return nil
}

// summarize runs Describe against a scratch schema and reads back what the
// rules documented.
func summarize(name string, rules []Rule) (string, error) {
	if len(rules) == 0 {
		return "", nil
	}
	parent := openapi3.NewSchema()
	ref := &openapi3.SchemaRef{Value: openapi3.NewSchema()}
	for _, rule := range rules {
		if err := rule.Describe(name, parent, ref); err != nil {
			return "", err
		}
	}

	s := ref.Value
	var parts []string
	if s.Description != "" {
		parts = append(parts, s.Description)
	}
	if len(parent.Required) > 0 {
		parts = append(parts, "required")
	}
	if s.Min != nil {
		parts = append(parts, fmt.Sprintf("min %g", *s.Min))
	}
	if s.Max != nil {
		parts = append(parts, fmt.Sprintf("max %g", *s.Max))
	}
	if s.MinLength > 0 {
		parts = append(parts, fmt.Sprintf("min length %d", s.MinLength))
	}
	if s.MaxLength != nil {
		parts = append(parts, fmt.Sprintf("max length %d", *s.MaxLength))
	}
	if len(s.Enum) > 0 {
		vals := make([]string, len(s.Enum))
		for i, v := range s.Enum {
			vals[i] = fmt.Sprint(v)
		}
		parts = append(parts, "one of ["+strings.Join(vals, ", ")+"]")
	}
	if s.Format != "" {
		parts = append(parts, "format "+s.Format)
	}
	if s.UniqueItems {
		parts = append(parts, "unique")
	}
	return strings.Join(parts, ", "), nil
}

type uniqueRule struct {
	key  func(i int) any
	desc string
}

// Unique returns a rule requiring key(i) to differ for every element i of a
// slice or array. Nil values pass.
func Unique(key func(i int) any, desc string) Rule {
	return uniqueRule{key: key, desc: desc}
}

func (r uniqueRule) Validate(value any) error {
	rv := reflect.ValueOf(value)
	if !rv.IsValid() || ((rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface) && rv.IsNil()) {
		return nil
	}
	rv = reflect.Indirect(rv)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return errors.New("must be a list")
	}
	seen := make(map[any]struct{}, rv.Len())
	for i := range rv.Len() {
		k := r.key(i)
		if _, dup := seen[k]; dup {
			return fmt.Errorf("must not contain duplicates, found '%v' more than once", k)
		}
		seen[k] = struct{}{}
	}
	return nil
}

func (r uniqueRule) Describe(_ string, _ *openapi3.Schema, ref *openapi3.SchemaRef) error {
	ref.Value.UniqueItems = true
	appendDescription(ref, r.desc)
	return nil
}
