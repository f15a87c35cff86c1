package pathconv

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/asaskevich/govalidator"
)

// ErrUnknownConverter is returned by [Lookup] for names that are not registered.
var ErrUnknownConverter = errors.New("unknown path converter")

// Registered converter names.
const (
	NameNoOp         = "no_op"
	NameCamelToSnake = "camel_to_snake"
	NameSnakeToCamel = "snake_to_camel"
)

// Converter rewrites one raw field path into the naming convention exposed
// to API clients. Convert must be total and free of side effects.
type Converter interface {
	Convert(path string) string
}

// Func adapts an ordinary function to [Converter].
type Func func(path string) string

// Convert calls f(path).
func (f Func) Convert(path string) string {
	return f(path)
}

// NoOp returns every path unchanged.
type NoOp struct{}

// Convert returns path.
func (NoOp) Convert(path string) string {
	return path
}

// CamelToSnake inserts an underscore before each uppercase letter that
// follows a lowercase letter or digit, then lowercases the result.
// Paths that are already snake_case pass through unchanged, and
// Convert(Convert(p)) == Convert(p) for every p.
type CamelToSnake struct{}

// Convert returns the snake_case form of path.
func (CamelToSnake) Convert(path string) string {
	var b strings.Builder
	b.Grow(len(path) + 4)

	prev := utf8.RuneError
	for i, r := range path {
		if i > 0 && isConvertibleUpper(r) && (unicode.IsLower(prev) || unicode.IsDigit(prev)) {
			b.WriteByte('_')
		}
		b.WriteRune(unicode.ToLower(r))
		prev = r
	}
	return b.String()
}

// isConvertibleUpper reports whether r is an uppercase letter with a distinct
// lowercase form. Uppercase letters without one survive lowercasing and would
// otherwise gain an underscore on a second pass.
func isConvertibleUpper(r rune) bool {
	return unicode.IsUpper(r) && unicode.ToLower(r) != r
}

// SnakeToCamel turns every snake_case segment of a path into lowerCamelCase:
// "billing_address.zip_code" becomes "billingAddress.zipCode". Segments
// without an underscore are left alone.
type SnakeToCamel struct{}

// Convert returns the lowerCamelCase form of path.
func (SnakeToCamel) Convert(path string) string {
	if !strings.Contains(path, "_") {
		return path
	}

	var b strings.Builder
	b.Grow(len(path))

	start := 0
	for i, r := range path {
		if !isSeparator(r) {
			continue
		}
		b.WriteString(camelSegment(path[start:i]))
		b.WriteRune(r)
		start = i + utf8.RuneLen(r)
	}
	b.WriteString(camelSegment(path[start:]))
	return b.String()
}

func isSeparator(r rune) bool {
	return r == '.' || r == '[' || r == ']'
}

func camelSegment(s string) string {
	if !strings.Contains(s, "_") || strings.Trim(s, "_") == "" {
		return s
	}
	return lowerFirst(govalidator.UnderscoreToCamelCase(s))
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}

var registry = map[string]Converter{
	NameNoOp:         NoOp{},
	NameCamelToSnake: CamelToSnake{},
	NameSnakeToCamel: SnakeToCamel{},
}

// Lookup returns the converter registered under name. An empty name selects [NoOp].
func Lookup(name string) (Converter, error) {
	if name == "" {
		return NoOp{}, nil
	}
	c, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownConverter, name)
	}
	return c, nil
}

// Names returns the registered converter names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Apply converts path with c, treating a nil converter as [NoOp].
func Apply(c Converter, path string) string {
	if c == nil {
		return path
	}
	return c.Convert(path)
}
