package restvalidation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/url"
	"strings"

	"github.com/go-viper/mapstructure/v2"
)

var (
	// ErrUnsupportedFormat is returned when no decoder is registered for a request format.
	ErrUnsupportedFormat = errors.New("unsupported request format")

	// ErrNoMapper is returned when a binding names a mapper that is not registered.
	ErrNoMapper = errors.New("request mapper not registered")
)

// Request is the part of an incoming request the listener works with.
// The transport adapter fills it; mapped entities are stored back into
// Attributes under the parameter name of their binding.
type Request struct {
	Controller  string
	ContentType string
	Attributes  map[string]any
	Query       url.Values
	Body        []byte
}

// Attribute returns the attribute stored under key.
func (r *Request) Attribute(key string) (any, bool) {
	v, ok := r.Attributes[key]
	return v, ok
}

// SetAttribute stores v under key.
func (r *Request) SetAttribute(key string, v any) {
	if r.Attributes == nil {
		r.Attributes = map[string]any{}
	}
	r.Attributes[key] = v
}

// QueryData returns the query string as raw data: single values as strings,
// repeated parameters as string slices.
func (r *Request) QueryData() map[string]any {
	data := make(map[string]any, len(r.Query))
	for k, vs := range r.Query {
		if len(vs) == 1 {
			data[k] = vs[0]
			continue
		}
		data[k] = append([]string(nil), vs...)
	}
	return data
}

// RequestMapper denormalizes raw request data into an entity.
type RequestMapper interface {
	Name() string
	MapToEntity(ctx context.Context, data map[string]any) (any, error)
}

// StructMapper maps request data into a new *T. Keys match json tags, or
// field names case-insensitively, and scalar strings are converted to the
// field type, so query parameters map as well as decoded bodies.
type StructMapper[T any] struct {
	name string
}

// NewStructMapper returns a mapper named name producing *T entities.
func NewStructMapper[T any](name string) *StructMapper[T] {
	return &StructMapper[T]{name: name}
}

// Name implements [RequestMapper].
func (m *StructMapper[T]) Name() string { return m.name }

// MapToEntity implements [RequestMapper].
func (m *StructMapper[T]) MapToEntity(_ context.Context, data map[string]any) (any, error) {
	entity := new(T)
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           entity,
		TagName:          "json",
		WeaklyTypedInput: true,
		Squash:           true,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(data); err != nil {
		return nil, fmt.Errorf("map %s: %w", m.name, err)
	}
	return entity, nil
}

// Decoder turns a request body into raw data.
type Decoder interface {
	Decode(content []byte) (map[string]any, error)
}

// JSONDecoder decodes JSON object bodies. Numbers are kept as [json.Number].
// An empty body decodes to empty data.
type JSONDecoder struct{}

// Decode implements [Decoder].
func (JSONDecoder) Decode(content []byte) (map[string]any, error) {
	data := map[string]any{}
	if len(bytes.TrimSpace(content)) == 0 {
		return data, nil
	}
	dec := json.NewDecoder(bytes.NewReader(content))
	dec.UseNumber()
	if err := dec.Decode(&data); err != nil {
		return nil, err
	}
	return data, nil
}

// FormatDetector resolves the format of a request body, such as "json".
type FormatDetector interface {
	RequestFormat(r *Request) string
}

// ContentTypeDetector maps media types to formats. Requests without a
// content type, or with an unknown one, get Default.
type ContentTypeDetector struct {
	Formats map[string]string
	Default string
}

// NewContentTypeDetector returns a detector that knows JSON media types and
// defaults to "json".
func NewContentTypeDetector() *ContentTypeDetector {
	return &ContentTypeDetector{
		Formats: map[string]string{
			"application/json":         "json",
			"application/problem+json": "json",
			"text/json":                "json",
		},
		Default: "json",
	}
}

// RequestFormat implements [FormatDetector].
func (d *ContentTypeDetector) RequestFormat(r *Request) string {
	mediaType, _, err := mime.ParseMediaType(r.ContentType)
	if err != nil {
		return d.Default
	}
	if f, ok := d.Formats[strings.ToLower(mediaType)]; ok {
		return f
	}
	return d.Default
}
