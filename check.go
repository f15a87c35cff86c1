package restvalidation

import (
	"context"
	"reflect"
	"strings"
)

// MissingRules returns the raw paths of exported fields of structPtr that no
// rule covers. Rules of embedded rulers count for the fields they cover.
// Fields tagged json:"-", docs:"skip" or validate:"-" are left out, as are
// the names in exclude (raw path or Go name).
//
// Use it in tests to catch forgotten fields:
//
//	assert.Empty(t, v.MissingRules(&Transfer{}, "note"))
func MissingRules(structPtr any, exclude ...string) []string {
	ctx := context.Background()
	ptr, fields, ok := rulesOf(ctx, structPtr)
	if !ok {
		return nil
	}
	fields = expandFields(ctx, ptr, fields)

	structVal := reflect.Indirect(reflect.ValueOf(ptr))
	covered := map[string]bool{}
	for _, fr := range fields {
		fv := reflect.ValueOf(fr.fieldPtr)
		if fv.Kind() != reflect.Ptr {
			continue
		}
		if sf := findStructField(structVal, fv); sf != nil {
			covered[fieldName(*sf)] = true
		}
	}

	skip := map[string]bool{}
	for _, e := range exclude {
		skip[e] = true
	}

	var missing []string
	collectUncovered(structVal.Type(), func(sf reflect.StructField) {
		name := fieldName(sf)
		if !covered[name] && !skip[name] && !skip[sf.Name] {
			missing = append(missing, name)
		}
	})
	return missing
}

// collectUncovered calls visit for every documented field of t, descending
// into embedded structs.
func collectUncovered(t reflect.Type, visit func(reflect.StructField)) {
	for i := range t.NumField() {
		sf := t.Field(i)
		if sf.Anonymous {
			inner := sf.Type
			if inner.Kind() == reflect.Ptr {
				inner = inner.Elem()
			}
			if inner.Kind() == reflect.Struct {
				collectUncovered(inner, visit)
			}
			continue
		}
		if !sf.IsExported() || tagName(sf, "json") == "-" || tagName(sf, "docs") == "skip" || sf.Tag.Get("validate") == "-" {
			continue
		}
		visit(sf)
	}
}

func tagName(sf reflect.StructField, key string) string {
	name, _, _ := strings.Cut(sf.Tag.Get(key), ",")
	return name
}
