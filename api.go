package restvalidation

import (
	"github.com/Gobd/restvalidation/pathconv"
)

// BindingKind tells where a binding takes its data from.
type BindingKind int

const (
	// BodyBinding maps the decoded request body.
	BodyBinding BindingKind = iota
	// QueryBinding maps the query string.
	QueryBinding
)

func (k BindingKind) String() string {
	if k == QueryBinding {
		return "query"
	}
	return "body"
}

// BindingKey identifies a binding by logical API and controller.
type BindingKey struct {
	APIKey     string
	Controller string
}

// Binding says which mapper turns a controller's request data into an
// entity and under which request attribute the entity is stored.
type Binding struct {
	Mapper    string
	Parameter string
	Kind      BindingKind
}

// API is the configuration of one logical API: how its violation paths are
// named, which controllers have request data mapped and validated, and which
// controllers are excluded from request logging. Configure it before serving
// requests; it is read-only afterwards.
type API struct {
	key         string
	converter   pathconv.Converter
	bindings    map[BindingKey][]Binding
	unlogged    map[string]bool
	trimStrings bool
}

// NewAPI returns an API identified by key that keeps raw violation paths.
func NewAPI(key string) *API {
	return &API{
		key:       key,
		converter: pathconv.NoOp{},
		bindings:  map[BindingKey][]Binding{},
		unlogged:  map[string]bool{},
	}
}

// Key returns the API key.
func (a *API) Key() string { return a.key }

// SetPathConverter sets the converter applied to violation paths; nil restores [pathconv.NoOp].
func (a *API) SetPathConverter(c pathconv.Converter) *API {
	if c == nil {
		c = pathconv.NoOp{}
	}
	a.converter = c
	return a
}

// PathConverter returns the active converter.
func (a *API) PathConverter() pathconv.Converter { return a.converter }

// AddRequestMapper maps the body of controller's requests with the mapper
// named mapper and stores the entity under parameter.
func (a *API) AddRequestMapper(mapper, controller, parameter string) *API {
	return a.addBinding(controller, Binding{Mapper: mapper, Parameter: parameter, Kind: BodyBinding})
}

// AddRequestQueryMapper is like AddRequestMapper but maps the query string.
func (a *API) AddRequestQueryMapper(mapper, controller, parameter string) *API {
	return a.addBinding(controller, Binding{Mapper: mapper, Parameter: parameter, Kind: QueryBinding})
}

func (a *API) addBinding(controller string, b Binding) *API {
	k := BindingKey{APIKey: a.key, Controller: controller}
	a.bindings[k] = append(a.bindings[k], b)
	return a
}

// Bindings returns the bindings of controller in registration order.
func (a *API) Bindings(controller string) []Binding {
	return append([]Binding(nil), a.bindings[BindingKey{APIKey: a.key, Controller: controller}]...)
}

// DontLogRequest excludes controller from request logging.
func (a *API) DontLogRequest(controller string) *API {
	a.unlogged[controller] = true
	return a
}

// ShouldLogRequest reports whether requests to controller are logged.
func (a *API) ShouldLogRequest(controller string) bool {
	return !a.unlogged[controller]
}

// SetTrimStrings makes the listener trim surrounding whitespace from every
// string field of mapped entities before validation.
func (a *API) SetTrimStrings(trim bool) *API {
	a.trimStrings = trim
	return a
}

// Resolver selects the API configuration that applies to a request.
// APIForRequest returns nil for requests outside every configured API.
type Resolver interface {
	APIForRequest(r *Request) *API
	APIKeyForRequest(r *Request) string
}

// APIKeyAttribute is the request attribute [StaticResolver] reads the API key from.
const APIKeyAttribute = "api_key"

// StaticResolver resolves APIs by the request's "api_key" attribute, which
// routing sets.
type StaticResolver struct {
	apis map[string]*API
}

// NewStaticResolver returns a resolver over apis.
func NewStaticResolver(apis ...*API) *StaticResolver {
	r := &StaticResolver{apis: make(map[string]*API, len(apis))}
	for _, a := range apis {
		r.apis[a.key] = a
	}
	return r
}

// APIKeyForRequest implements [Resolver].
func (s *StaticResolver) APIKeyForRequest(r *Request) string {
	key, _ := r.Attributes[APIKeyAttribute].(string)
	return key
}

// APIForRequest implements [Resolver].
func (s *StaticResolver) APIForRequest(r *Request) *API {
	return s.apis[s.APIKeyForRequest(r)]
}
