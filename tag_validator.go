package restvalidation

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/Gobd/restvalidation/violation"
	"github.com/go-playground/validator/v10"
)

// TagValidator validates entities described with `validate` struct tags
// using go-playground/validator. Violation paths use the same naming as
// [RuleValidator]: json tag names, otherwise lowerCamelCase field names,
// with the root type name dropped ("items[0].unitPrice").
type TagValidator struct {
	validate *validator.Validate
}

// NewTagValidator returns a TagValidator. It is safe for concurrent use.
func NewTagValidator() *TagValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(fieldName)
	return &TagValidator{validate: v}
}

// Validate implements [Validator]. Entities must be structs or struct pointers.
func (t *TagValidator) Validate(ctx context.Context, entity any) (violation.ConstraintList, error) {
	if entity == nil {
		return nil, nil
	}
	err := t.validate.StructCtx(ctx, entity)
	if err == nil {
		return nil, nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return nil, err
	}
	list := make(violation.ConstraintList, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		list = append(list, violation.Constraint{
			Path:         namespacePath(fe.Namespace()),
			Message:      tagMessage(fe),
			InvalidValue: fe.Value(),
		})
	}
	return list, nil
}

// namespacePath drops the root type name from a validator namespace.
func namespacePath(ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

// tagMessage maps validation tags to user-facing messages, phrased like the
// rule engine's messages so both validators read the same to clients.
func tagMessage(fe validator.FieldError) string {
	isText := fe.Kind() == reflect.String || fe.Kind() == reflect.Slice || fe.Kind() == reflect.Map
	switch fe.Tag() {
	case "required", "required_if", "required_unless", "required_with", "required_without":
		return "cannot be blank"
	case "email":
		return "must be a valid email address"
	case "url", "uri":
		return "must be a valid URL"
	case "uuid", "uuid4":
		return "must be a valid UUID"
	case "alphanum":
		return "must contain only letters and digits"
	case "oneof":
		return fmt.Sprintf("must be one of %s", strings.Join(strings.Fields(fe.Param()), ", "))
	case "len":
		return fmt.Sprintf("the length must be exactly %s", fe.Param())
	case "min", "gte":
		if isText {
			return fmt.Sprintf("the length must be no less than %s", fe.Param())
		}
		return fmt.Sprintf("must be no less than %s", fe.Param())
	case "max", "lte":
		if isText {
			return fmt.Sprintf("the length must be no more than %s", fe.Param())
		}
		return fmt.Sprintf("must be no greater than %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "lt":
		return fmt.Sprintf("must be less than %s", fe.Param())
	default:
		return fmt.Sprintf("failed on the '%s' rule", fe.Tag())
	}
}
