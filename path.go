package restvalidation

import (
	"reflect"
	"strings"
	"unicode"
)

// fieldName returns the raw path segment for a struct field: its json tag
// name if present, otherwise the Go name in lowerCamelCase.
func fieldName(sf reflect.StructField) string {
	if tag, _, _ := strings.Cut(sf.Tag.Get("json"), ","); tag != "" && tag != "-" {
		return tag
	}
	return lowerFirst(sf.Name)
}

// lowerFirst lowercases the leading run of capitals of a Go identifier,
// keeping the capital that starts the next word: "FirstName" -> "firstName",
// "ID" -> "id", "URLPath" -> "urlPath".
func lowerFirst(s string) string {
	runes := []rune(s)
	n := 0
	for n < len(runes) && unicode.IsUpper(runes[n]) {
		n++
	}
	switch {
	case n == 0:
		return s
	case n > 1 && n < len(runes) && unicode.IsLower(runes[n]):
		n--
	}
	for i := range n {
		runes[i] = unicode.ToLower(runes[i])
	}
	return string(runes)
}

func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	if name == "" {
		return prefix
	}
	return prefix + "." + name
}

func indexPath(prefix, key string) string {
	return prefix + "[" + key + "]"
}
