package restvalidation

import (
	"context"
	"reflect"
)

// Field creates a FieldRules binding a struct field pointer to its validation rules.
func Field[T any](fieldPtr *T, rules ...Rule) *FieldRules {
	return &FieldRules{
		fieldPtr: fieldPtr,
		rules:    rules,
	}
}

// rulesOf returns the rules declared by value and the struct pointer they were
// declared against. Struct values are copied behind a pointer first so that
// pointer-receiver rulers and field addresses line up.
func rulesOf(ctx context.Context, value any) (any, []*FieldRules, bool) {
	if rv := reflect.ValueOf(value); rv.Kind() == reflect.Struct {
		ptr := reflect.New(rv.Type())
		ptr.Elem().Set(rv)
		value = ptr.Interface()
	}
	switch r := value.(type) {
	case Ruler:
		return value, r.Rules(), true
	case ContextRuler:
		return value, r.Rules(ctx), true
	}
	return nil, nil, false
}

// expandFields flattens embedded Ruler/ContextRuler field rules into the parent's rule set.
// Non-embedded fields are returned as-is, so violation paths of embedded
// fields are not nested under the embedded type.
func expandFields(ctx context.Context, structPtr any, fields []*FieldRules) []*FieldRules {
	structVal := reflect.Indirect(reflect.ValueOf(structPtr))
	if !structVal.IsValid() || structVal.Kind() != reflect.Struct {
		return fields
	}

	result := make([]*FieldRules, 0, len(fields))
	for _, fr := range fields {
		fv := reflect.ValueOf(fr.fieldPtr)
		if fv.Kind() == reflect.Ptr {
			if sf := findStructField(structVal, fv); sf != nil && sf.Anonymous {
				embeddedPtr := fv.Interface()
				if r, ok := embeddedPtr.(Ruler); ok {
					result = append(result, expandFields(ctx, embeddedPtr, r.Rules())...)
					continue
				}
				if r, ok := embeddedPtr.(ContextRuler); ok {
					result = append(result, expandFields(ctx, embeddedPtr, r.Rules(ctx))...)
					continue
				}
			}
		}
		result = append(result, fr)
	}
	return result
}

// findStructField returns the field of structVal that fieldPtr points to,
// searching embedded structs as well. structVal must be addressable.
func findStructField(structVal reflect.Value, fieldPtr reflect.Value) *reflect.StructField {
	ptr := fieldPtr.Pointer()
	for i := structVal.NumField() - 1; i >= 0; i-- {
		sf := structVal.Type().Field(i)
		fv := structVal.Field(i)
		if fv.CanAddr() && fv.Addr().Pointer() == ptr && sf.Type == fieldPtr.Elem().Type() {
			return &sf
		}
		if !sf.Anonymous {
			continue
		}
		if fv.Kind() == reflect.Ptr {
			if fv.IsNil() {
				continue
			}
			fv = fv.Elem()
		}
		if fv.Kind() == reflect.Struct {
			if f := findStructField(fv, fieldPtr); f != nil {
				return f
			}
		}
	}
	return nil
}
