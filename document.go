package restvalidation

import (
	"context"

	"github.com/getkin/kin-openapi/openapi3"
)

type (
	// RuleFunc is a function type that validates a value and returns an error if invalid.
	RuleFunc func(value any) error

	// Rule is the interface that all validation rules must implement.
	// Validate reports a failure whose message becomes the violation message;
	// Describe documents the rule on the OpenAPI schema of the field.
	Rule interface {
		Validate(value any) error
		Describe(name string, schema *openapi3.Schema, ref *openapi3.SchemaRef) error
	}

	// FieldRules binds a struct field pointer to its validation rules.
	FieldRules struct {
		fieldPtr any
		tag      string
		rules    []Rule
	}

	// Ruler is implemented by entities that declare rules for their fields.
	// Fields are validated, and reported, in the order Rules returns them.
	//
	//	func (t *Transfer) Rules() []*FieldRules {
	//	    return []*FieldRules{
	//	        Field(&t.FirstName, Required, Length(1, 50)),
	//	        Field(&t.Amount, Required, Min(0.01)),
	//	    }
	//	}
	Ruler interface {
		Rules() []*FieldRules
	}

	// ContextRuler is like Ruler but receives the validation context.
	ContextRuler interface {
		Rules(ctx context.Context) []*FieldRules
	}

	// ValueRuler is implemented by non-struct types (e.g. type Currency string)
	// that carry their own validation rules. The rules apply wherever the type
	// appears as a field, during both validation and schema generation.
	//
	//	type Currency string
	//
	//	func (c Currency) ValueRules() []Rule {
	//	    return []Rule{In(Currency("EUR"), Currency("USD"))}
	//	}
	ValueRuler interface {
		ValueRules() []Rule
	}
)
