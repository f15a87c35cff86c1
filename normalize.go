package restvalidation

import (
	"context"
	"reflect"
)

// Normalizer is implemented by entities that clean themselves up after being
// mapped from request data and before validation (trimming, lowercasing,
// filling defaults). Normalization recurses: the entity first, then nested
// structs, pointers, slices and map values depth-first.
type Normalizer interface {
	Normalize()
}

// ContextNormalizer is like Normalizer but receives the request context.
type ContextNormalizer interface {
	Normalize(context.Context)
}

func normalizeRecursive(ctx context.Context, a any) {
	if a == nil {
		return
	}
	callNormalize(ctx, a)
	rv := reflect.ValueOf(a)
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return
		}
		rv = rv.Elem()
	}
	if rv.Kind() == reflect.Struct {
		walkNormalize(ctx, rv)
	}
}

func callNormalize(ctx context.Context, v any) {
	if n, ok := v.(ContextNormalizer); ok {
		n.Normalize(ctx)
		return
	}
	if n, ok := v.(Normalizer); ok {
		n.Normalize()
	}
}

func walkNormalize(ctx context.Context, rv reflect.Value) {
	for i := range rv.NumField() {
		if !rv.Type().Field(i).IsExported() {
			continue
		}
		normalizeValue(ctx, rv.Field(i))
	}
}

func normalizeValue(ctx context.Context, field reflect.Value) {
	switch field.Kind() {
	case reflect.Struct:
		if field.CanAddr() {
			callNormalize(ctx, field.Addr().Interface())
		}
		walkNormalize(ctx, field)
	case reflect.Ptr:
		if field.IsNil() {
			return
		}
		callNormalize(ctx, field.Interface())
		if field.Elem().Kind() == reflect.Struct {
			walkNormalize(ctx, field.Elem())
		}
	case reflect.Slice:
		for j := range field.Len() {
			elem := field.Index(j)
			if elem.Kind() == reflect.Struct || elem.Kind() == reflect.Ptr {
				normalizeValue(ctx, elem)
			}
		}
	case reflect.Map:
		for _, key := range field.MapKeys() {
			val := field.MapIndex(key)
			// Map values aren't addressable; copy, normalize, put back.
			if val.Kind() == reflect.Struct {
				cp := reflect.New(val.Type())
				cp.Elem().Set(val)
				callNormalize(ctx, cp.Interface())
				walkNormalize(ctx, cp.Elem())
				field.SetMapIndex(key, cp.Elem())
			}
		}
	}
}
