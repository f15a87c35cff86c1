package restvalidation

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/Gobd/restvalidation/pathconv"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3gen"
)

// NewSchemaRefForValue generates an OpenAPI schema for the given value,
// applying validation rules from types that implement [Ruler],
// [ContextRuler], or [ValueRuler]. Property names are the raw field paths
// converted with c, so documented names match the names violations report.
func NewSchemaRefForValue(value any, c pathconv.Converter) (*openapi3.SchemaRef, error) {
	g := openapi3gen.NewGenerator(
		openapi3gen.UseAllExportedFields(),
		openapi3gen.SchemaCustomizer(schemaDoc(c)),
	)
	return g.NewSchemaRefForValue(value, nil)
}

// schemaDoc returns a SchemaCustomizer that renames struct properties and
// applies validation rules to them.
func schemaDoc(c pathconv.Converter) openapi3gen.SchemaCustomizerFn {
	return func(name string, t reflect.Type, _ reflect.StructTag, schema *openapi3.Schema) error {
		for t.Kind() == reflect.Ptr {
			t = t.Elem()
		}
		if t.Kind() != reflect.Struct {
			return applyValueRulerSchema(t, name, schema)
		}

		renameProperties(t, schema, c)

		ctx := context.Background()
		vi, fields, ok := rulesOf(ctx, reflect.New(t).Interface())
		if !ok {
			return nil
		}
		fields = expandFields(ctx, vi, fields)
		if err := mapFieldsToTags(fields, reflect.Indirect(reflect.ValueOf(vi)), c); err != nil {
			return err
		}
		return applyRulesToSchema(fields, schema)
	}
}

// documentedFields lists the fields the generator turns into properties,
// flattening untagged embedded structs.
func documentedFields(t reflect.Type) []reflect.StructField {
	var out []reflect.StructField
	for i := range t.NumField() {
		sf := t.Field(i)
		jsonTag, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
		if jsonTag == "-" {
			continue
		}
		if sf.Anonymous && jsonTag == "" {
			inner := sf.Type
			if inner.Kind() == reflect.Ptr {
				inner = inner.Elem()
			}
			if inner.Kind() == reflect.Struct {
				out = append(out, documentedFields(inner)...)
				continue
			}
		}
		if !sf.IsExported() {
			continue
		}
		out = append(out, sf)
	}
	return out
}

// renameProperties moves every property from the generator's name to the
// converted raw path name, dropping fields tagged docs:"skip".
func renameProperties(t reflect.Type, schema *openapi3.Schema, c pathconv.Converter) {
	for _, sf := range documentedFields(t) {
		from, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
		if from == "" {
			from = sf.Name
		}
		ref, ok := schema.Properties[from]
		if !ok {
			continue
		}
		if skip, _, _ := strings.Cut(sf.Tag.Get("docs"), ","); skip == "skip" {
			delete(schema.Properties, from)
			continue
		}

		to := pathconv.Apply(c, fieldName(sf))
		if to == from {
			continue
		}
		delete(schema.Properties, from)
		schema.Properties[to] = ref
		for i, r := range schema.Required {
			if r == from {
				schema.Required[i] = to
			}
		}
	}
}

// mapFieldsToTags resolves each FieldRules' fieldPtr to its converted property name
// using struct field address comparison.
func mapFieldsToTags(fields []*FieldRules, structVal reflect.Value, c pathconv.Converter) error {
	for i, fr := range fields {
		fv := reflect.ValueOf(fr.fieldPtr)
		if fv.Kind() != reflect.Ptr {
			return fmt.Errorf("rule target for field index %d must be a pointer, got %s", i, fv.Kind())
		}
		sf := findStructField(structVal, fv)
		if sf == nil {
			return fmt.Errorf("rule target for field index %d not found in struct %s", i, structVal.Type())
		}
		if sf.Anonymous {
			fields[i].tag = ""
			continue
		}
		fields[i].tag = pathconv.Apply(c, fieldName(*sf))
	}
	return nil
}

// applyRulesToSchema calls Describe on each rule for its schema property,
// in rule declaration order.
func applyRulesToSchema(fields []*FieldRules, schema *openapi3.Schema) error {
	for _, f := range fields {
		propRef, ok := schema.Properties[f.tag]
		if f.tag == "" || !ok {
			continue
		}
		for _, rule := range f.rules {
			if err := rule.Describe(f.tag, schema, propRef); err != nil {
				return err
			}
		}
	}
	return nil
}

// applyValueRulerSchema applies the Describe methods of a [ValueRuler] type's
// rules to its schema.
func applyValueRulerSchema(t reflect.Type, name string, schema *openapi3.Schema) error {
	vr, ok := reflect.New(t).Interface().(ValueRuler)
	if !ok {
		return nil
	}
	ref := &openapi3.SchemaRef{Value: schema}
	for _, rule := range vr.ValueRules() {
		if err := rule.Describe(name, schema, ref); err != nil {
			return err
		}
	}
	return nil
}
