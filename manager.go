package restvalidation

import (
	"context"
	"fmt"
)

// ManagerOption configures a [Manager].
type ManagerOption func(*Manager)

// WithValidator replaces the default [RuleValidator].
func WithValidator(v Validator) ManagerOption {
	return func(m *Manager) {
		if v != nil {
			m.validator = v
		}
	}
}

// WithFormatDetector replaces the default [ContentTypeDetector].
func WithFormatDetector(d FormatDetector) ManagerOption {
	return func(m *Manager) {
		if d != nil {
			m.detector = d
		}
	}
}

// WithDecoder registers d for format.
func WithDecoder(format string, d Decoder) ManagerOption {
	return func(m *Manager) { m.AddDecoder(d, format) }
}

// WithMappers registers request mappers by name.
func WithMappers(mappers ...RequestMapper) ManagerOption {
	return func(m *Manager) { m.AddMapper(mappers...) }
}

// Manager holds the services shared by all APIs: API resolution, format
// detection, body decoders, request mappers and the validator. Register
// decoders and mappers before serving requests.
type Manager struct {
	resolver  Resolver
	detector  FormatDetector
	validator Validator
	decoders  map[string]Decoder
	mappers   map[string]RequestMapper
}

// NewManager returns a Manager resolving APIs with resolver. By default it
// detects formats from the content type, decodes JSON and validates with a
// [RuleValidator].
func NewManager(resolver Resolver, opts ...ManagerOption) *Manager {
	m := &Manager{
		resolver:  resolver,
		detector:  NewContentTypeDetector(),
		validator: NewRuleValidator(),
		decoders:  map[string]Decoder{"json": JSONDecoder{}},
		mappers:   map[string]RequestMapper{},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// AddDecoder registers d for format, replacing any previous decoder.
func (m *Manager) AddDecoder(d Decoder, format string) {
	m.decoders[format] = d
}

// Decoder returns the decoder registered for format.
func (m *Manager) Decoder(format string) (Decoder, error) {
	d, ok := m.decoders[format]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	return d, nil
}

// AddMapper registers mappers under their names.
func (m *Manager) AddMapper(mappers ...RequestMapper) {
	for _, rm := range mappers {
		m.mappers[rm.Name()] = rm
	}
}

// Mapper returns the mapper registered under name.
func (m *Manager) Mapper(name string) (RequestMapper, error) {
	rm, ok := m.mappers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoMapper, name)
	}
	return rm, nil
}

// APIForRequest returns the API that applies to r, or nil.
func (m *Manager) APIForRequest(r *Request) *API {
	if m.resolver == nil {
		return nil
	}
	return m.resolver.APIForRequest(r)
}

// RequestFormat returns the detected format of r's body.
func (m *Manager) RequestFormat(r *Request) string {
	return m.detector.RequestFormat(r)
}

// ValidateEntity validates entity and converts violation paths with the
// converter of api. See [ValidateEntity].
func (m *Manager) ValidateEntity(ctx context.Context, api *API, entity any) error {
	return ValidateEntity(ctx, m.validator, entity, api.PathConverter())
}
