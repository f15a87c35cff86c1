package openapi

import (
	rv "github.com/Gobd/restvalidation"
	"github.com/Gobd/restvalidation/apierror"
	"github.com/Gobd/restvalidation/pathconv"
	"github.com/getkin/kin-openapi/openapi3"
)

// NewSchemaRefForValue generates an OpenAPI schema for the given value,
// applying validation rules from types that implement [restvalidation.Ruler],
// [restvalidation.ContextRuler], or [restvalidation.ValueRuler]. Property
// names are converted with c; nil keeps raw names.
func NewSchemaRefForValue(value any, c pathconv.Converter) (*openapi3.SchemaRef, error) {
	return rv.NewSchemaRefForValue(value, c)
}

// ValidationErrorSchema describes the error body written for rejected
// requests (see [apierror.Normalize]). Keys of error_properties are field
// paths; each holds the messages reported for that field.
func ValidationErrorSchema() *openapi3.Schema {
	messages := openapi3.NewArraySchema().WithItems(openapi3.NewStringSchema())
	item := openapi3.NewObjectSchema().
		WithProperty("field", openapi3.NewStringSchema()).
		WithProperty("message", openapi3.NewStringSchema())

	s := openapi3.NewObjectSchema().
		WithProperty("error", openapi3.NewStringSchema().WithEnum(
			apierror.CodeInvalidParameters,
			apierror.CodeInvalidRequest,
			apierror.CodeInternalServerError,
		)).
		WithProperty("error_description", openapi3.NewStringSchema()).
		WithProperty("error_properties", openapi3.NewObjectSchema().WithAdditionalProperties(messages)).
		WithProperty("errors", openapi3.NewArraySchema().WithItems(item))
	s.Required = []string{"error"}
	return s
}

// ValidationErrorResponse is the 400 response for rejected requests.
func ValidationErrorResponse() Response {
	return Response{
		Desc:   "Request validation failed",
		Schema: ValidationErrorSchema(),
	}
}
