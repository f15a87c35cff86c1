package transform

import (
	"reflect"
	"strings"
)

// StructTrimSpace runs [strings.TrimSpace] on all string fields in the struct recursively,
// including nested structs, pointer fields, slices, and map values.
func StructTrimSpace(v any) {
	StructStringFunc(v, strings.TrimSpace)
}

// StructToLower runs [strings.ToLower] on all string fields in the struct recursively.
func StructToLower(v any) {
	StructStringFunc(v, strings.ToLower)
}

// StructMulti runs all given functions on the struct pointer sequentially.
func StructMulti(v any, fns ...func(any)) {
	for _, f := range fns {
		f(v)
	}
}

// StructStringFunc applies f to every settable string field reachable from
// the struct v points to. Values that are not struct pointers are ignored.
func StructStringFunc(v any, f func(string) string) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return
	}
	apply(rv.Elem(), f)
}

func apply(v reflect.Value, f func(string) string) {
	switch v.Kind() {
	case reflect.String:
		if v.CanSet() {
			v.SetString(f(v.String()))
		}
	case reflect.Struct:
		for i := range v.NumField() {
			if field := v.Field(i); field.CanSet() {
				apply(field, f)
			}
		}
	case reflect.Ptr:
		if !v.IsNil() {
			apply(v.Elem(), f)
		}
	case reflect.Slice, reflect.Array:
		for i := range v.Len() {
			apply(v.Index(i), f)
		}
	case reflect.Map:
		// Map values aren't addressable; rewrite them through a copy.
		for _, key := range v.MapKeys() {
			val := v.MapIndex(key)
			switch val.Kind() {
			case reflect.String:
				v.SetMapIndex(key, reflect.ValueOf(f(val.String())).Convert(val.Type()))
			case reflect.Struct:
				cp := reflect.New(val.Type()).Elem()
				cp.Set(val)
				apply(cp, f)
				v.SetMapIndex(key, cp)
			}
		}
	case reflect.Interface:
		// Skip interface fields: the concrete value is not settable in place.
	}
}
