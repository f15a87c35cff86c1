package restvalidation

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// appendDescription adds desc to the schema description, space separated.
func appendDescription(ref *openapi3.SchemaRef, desc string) {
	if desc == "" {
		return
	}
	if ref.Value.Description != "" && !strings.HasSuffix(ref.Value.Description, " ") {
		ref.Value.Description += " "
	}
	ref.Value.Description += desc
}

type requiredRule struct {
	validation.RequiredRule
}

// Required is a validation rule that checks if a value is not empty.
var Required Rule = requiredRule{validation.Required}

func (r requiredRule) Describe(name string, schema *openapi3.Schema, _ *openapi3.SchemaRef) error {
	schema.Required = append(schema.Required, name)
	return nil
}

type notNilRule struct {
	validation.Rule
}

// NotNil is a validation rule that checks if a value is not nil.
var NotNil Rule = notNilRule{validation.NotNil}

func (r notNilRule) Describe(_ string, _ *openapi3.Schema, ref *openapi3.SchemaRef) error {
	ref.Value.Nullable = false
	return nil
}

type lengthRule struct {
	validation.LengthRule
	min, max int
}

// Length returns a validation rule that checks if a string's rune length is within the specified range.
func Length(lo, hi int) Rule {
	return &lengthRule{
		validation.RuneLength(lo, hi),
		lo,
		hi,
	}
}

func (r *lengthRule) Describe(_ string, _ *openapi3.Schema, ref *openapi3.SchemaRef) error {
	fmin := float64(r.min)
	fmax := float64(r.max)
	if ref.Value.Type.Is(openapi3.TypeString) {
		ref.Value.MinLength = uint64(r.min)
		if r.max > 0 {
			ml := uint64(r.max)
			ref.Value.MaxLength = &ml
		}
		return nil
	}
	ref.Value.Min = &fmin
	ref.Value.Max = &fmax
	return nil
}

type thresholdRule struct {
	validation.ThresholdRule
	threshold any
	min       bool
}

// Min returns a validation rule that checks if a value is greater than or equal to the specified minimum.
// Numeric strings are parsed with the threshold's kind before comparing.
func Min(threshold any) Rule {
	return thresholdRule{
		validation.Min(threshold),
		threshold,
		true,
	}
}

// Max returns a validation rule that checks if a value is less than or equal to the specified maximum.
func Max(threshold any) Rule {
	return thresholdRule{
		validation.Max(threshold),
		threshold,
		false,
	}
}

func (r thresholdRule) Describe(_ string, _ *openapi3.Schema, ref *openapi3.SchemaRef) error {
	if ref.Value.Type.Is(openapi3.TypeString) {
		ref.Value.Format = fmt.Sprintf("%T", r.threshold)
	}
	f, err := getFloat(r.threshold)
	if err != nil {
		return err
	}
	if r.min {
		ref.Value.Min = &f
	} else {
		ref.Value.Max = &f
	}
	return nil
}

var floatType = reflect.TypeOf(float64(0))

func getFloat(unk any) (float64, error) {
	v := reflect.Indirect(reflect.ValueOf(unk))
	if !v.Type().ConvertibleTo(floatType) {
		return 0, fmt.Errorf("cannot convert %v to float64", v.Type())
	}
	return v.Convert(floatType).Float(), nil
}

func (r thresholdRule) Validate(value any) error {
	value, isNil := validation.Indirect(value)
	if isNil || validation.IsEmpty(value) {
		return nil
	}

	if reflect.ValueOf(value).Kind() != reflect.String {
		return r.ThresholdRule.Validate(value)
	}

	// json.Number and other string kinds
	if v, ok := value.(fmt.Stringer); ok {
		value = v.String()
	}
	s := reflect.ValueOf(value).String()

	var err error
	switch reflect.ValueOf(r.threshold).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if value, err = strconv.ParseInt(s, 10, 64); err != nil {
			return errors.New("must be an integer")
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if value, err = strconv.ParseUint(s, 10, 64); err != nil {
			return errors.New("must be a non-negative integer")
		}
	case reflect.Float32, reflect.Float64:
		if value, err = strconv.ParseFloat(s, 64); err != nil {
			return errors.New("must be a number")
		}
	}

	return r.ThresholdRule.Validate(value)
}

// inRule is a validation rule that validates if a value can be found in the given list of values.
type inRule struct {
	validation.InRule
	values []any
}

// In returns a validation rule that checks if a value is one of the allowed values.
func In(values ...any) Rule {
	want := make([]string, len(values))
	for i := range values {
		want[i] = fmt.Sprintf("'%v'", values[i])
	}
	return &inRule{
		validation.In(values...).Error(fmt.Sprintf("must be one of %s", strings.Join(want, ", "))),
		values,
	}
}

func (r *inRule) Validate(value any) error {
	if err := r.InRule.Validate(value); err != nil {
		return fmt.Errorf("%s got '%v'", err, value)
	}
	return nil
}

func (r *inRule) Describe(_ string, _ *openapi3.Schema, ref *openapi3.SchemaRef) error {
	ref.Value.Enum = r.values
	return nil
}

type eachRule struct {
	validation.EachRule
	rules []Rule
}

// Each returns a validation rule that applies the given rules to each element
// of a slice, array or map. Failures are reported per element, for example
// "tags[1]".
func Each(rules ...Rule) Rule {
	return &eachRule{
		validation.Each(convertRules(rules...)...),
		rules,
	}
}

func (r *eachRule) Describe(name string, schema *openapi3.Schema, ref *openapi3.SchemaRef) error {
	target := ref
	if ref.Value.Items != nil && ref.Value.Items.Value != nil {
		target = ref.Value.Items
	}
	for i := range r.rules {
		if err := r.rules[i].Describe(name, schema, target); err != nil {
			return err
		}
	}
	return nil
}

func convertRules(rules ...Rule) []validation.Rule {
	vRules := make([]validation.Rule, len(rules))
	for i := range rules {
		vRules[i] = validation.Rule(rules[i])
	}
	return vRules
}

type custom struct {
	f    func(any) error
	desc string
}

// Custom returns a validation rule that uses f for validation and desc for documentation.
func Custom(f func(any) error, desc string) Rule {
	return custom{
		f:    f,
		desc: desc,
	}
}

func (r custom) Describe(_ string, _ *openapi3.Schema, ref *openapi3.SchemaRef) error {
	appendDescription(ref, r.desc)
	return nil
}

func (r custom) Validate(value any) error {
	return r.f(value)
}

// By wraps a RuleFunc into a Rule.
func By(f RuleFunc, desc string) Rule {
	return &inlineRule{validation.By(validation.RuleFunc(f)), desc}
}

type inlineRule struct {
	validation.Rule
	desc string
}

func (r *inlineRule) Describe(_ string, _ *openapi3.Schema, ref *openapi3.SchemaRef) error {
	appendDescription(ref, r.desc)
	return nil
}

type describe struct {
	desc string
}

// Describe returns a documentation-only rule that appends desc to the schema description.
func Describe(desc string) Rule {
	return &describe{desc: desc}
}

func (r *describe) Describe(_ string, _ *openapi3.Schema, ref *openapi3.SchemaRef) error {
	appendDescription(ref, r.desc)
	return nil
}

func (r *describe) Validate(_ any) error {
	return nil
}

// docRule only documents; it never fails validation.
type docRule func(ref *openapi3.SchemaRef)

func (r docRule) Validate(any) error { return nil }

func (r docRule) Describe(_ string, _ *openapi3.Schema, ref *openapi3.SchemaRef) error {
	r(ref)
	return nil
}

// Default documents the value a field takes when omitted.
func Default(v any) Rule {
	return docRule(func(ref *openapi3.SchemaRef) { ref.Value.Default = v })
}

// Example documents an example value.
func Example(v any) Rule {
	return docRule(func(ref *openapi3.SchemaRef) { ref.Value.Example = v })
}

// Deprecate marks a field as deprecated.
func Deprecate() Rule {
	return docRule(func(ref *openapi3.SchemaRef) { ref.Value.Deprecated = true })
}
