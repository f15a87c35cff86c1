package restvalidation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Gobd/restvalidation/apierror"
	"github.com/Gobd/restvalidation/transform"
)

// ListenerOption configures a [Listener].
type ListenerOption func(*Listener)

// WithLogger sets the logger for request and failure logs.
// Nil loggers are ignored.
func WithLogger(l *slog.Logger) ListenerOption {
	return func(li *Listener) {
		if l != nil {
			li.logger = l
		}
	}
}

// Listener prepares requests before their controller runs: it maps request
// data into entities, validates them, and stores them in the request
// attributes. It is safe for concurrent use once configured.
type Listener struct {
	manager *Manager
	logger  *slog.Logger
}

// NewListener returns a Listener backed by manager.
func NewListener(manager *Manager, opts ...ListenerOption) *Listener {
	l := &Listener{
		manager: manager,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// OnController runs every binding configured for r's controller, in
// registration order. Requests outside every API pass through untouched.
//
// It returns an *[apierror.Exception] when request data cannot be decoded or
// mapped (invalid_request) or when an entity fails validation
// (invalid_parameters); configuration errors such as unknown mappers are
// returned as plain errors.
func (l *Listener) OnController(ctx context.Context, r *Request) error {
	api := l.manager.APIForRequest(r)
	if api == nil {
		return nil
	}

	log := l.logger.With(slog.String("api", api.Key()), slog.String("controller", r.Controller))
	if api.ShouldLogRequest(r.Controller) {
		log.InfoContext(ctx, "request received",
			slog.String("content_type", r.ContentType),
			slog.Int("body_size", len(r.Body)),
			slog.Int("query_params", len(r.Query)),
		)
	}

	for _, b := range api.Bindings(r.Controller) {
		entity, err := l.mapEntity(ctx, api, r, b)
		if err == nil {
			err = l.manager.ValidateEntity(ctx, api, entity)
		}
		if err != nil {
			l.logFailure(ctx, log, b, err)
			return err
		}
		r.SetAttribute(b.Parameter, entity)
	}
	return nil
}

func (l *Listener) mapEntity(ctx context.Context, api *API, r *Request, b Binding) (any, error) {
	mapper, err := l.manager.Mapper(b.Mapper)
	if err != nil {
		return nil, fmt.Errorf("controller %q: %w", r.Controller, err)
	}

	var data map[string]any
	switch b.Kind {
	case QueryBinding:
		data = r.QueryData()
	default:
		format := l.manager.RequestFormat(r)
		dec, err := l.manager.Decoder(format)
		if err != nil {
			return nil, apierror.InvalidRequest(fmt.Sprintf("Unsupported request format %q", format), err)
		}
		if data, err = dec.Decode(r.Body); err != nil {
			return nil, apierror.InvalidRequest("Malformed request body", err)
		}
	}

	entity, err := mapper.MapToEntity(ctx, data)
	if err != nil {
		return nil, apierror.InvalidRequest("Request data cannot be mapped", err)
	}
	if api.trimStrings {
		transform.StructTrimSpace(entity)
	}
	normalizeRecursive(ctx, entity)
	return entity, nil
}

func (l *Listener) logFailure(ctx context.Context, log *slog.Logger, b Binding, err error) {
	attrs := []any{slog.String("parameter", b.Parameter), slog.String("binding", b.Kind.String())}
	if e, ok := apierror.As(err); ok {
		if errors.Is(e, apierror.ErrValidationFailed) {
			attrs = append(attrs, slog.Int("violations", len(e.Violations())))
		}
		log.DebugContext(ctx, "request rejected", append(attrs, slog.String("code", e.Code()))...)
		return
	}
	log.ErrorContext(ctx, "request preparation failed", append(attrs, slog.Any("error", err))...)
}
