// Command chi demonstrates restvalidation with a chi router: every route is
// bound to a controller name, and a middleware runs the listener before the
// handler sees the request.
//
// Run:
//
//	cd _example/chi && go run .
//
// Then try:
//
//	curl -s localhost:8080/transfers -d '{"firstName":"","amount":0}'
//	curl -s localhost:8080/openapi.json
package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	v "github.com/Gobd/restvalidation"
	"github.com/Gobd/restvalidation/apierror"
	"github.com/Gobd/restvalidation/openapi"
	"github.com/Gobd/restvalidation/pathconv"
	"github.com/go-chi/chi/v5"
)

const config = `
apis:
  - key: wallet
    path_converter: camel_to_snake
    trim_strings: true
    unlogged_controllers: [health]
    bindings:
      - controller: transfers.create
        mapper: transfer
        parameter: transfer
`

type Transfer struct {
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
}

func (t *Transfer) Rules() []*v.FieldRules {
	return []*v.FieldRules{
		v.Field(&t.FirstName, v.Required, v.Length(1, 50)),
		v.Field(&t.LastName, v.Required, v.Length(1, 50)),
		v.Field(&t.Amount, v.Required, v.Min(0.01)),
		v.Field(&t.Currency, v.Required, v.In("EUR", "USD"), v.Default("EUR")),
	}
}

func (t *Transfer) Normalize() {
	if t.Currency == "" {
		t.Currency = "EUR"
	}
	t.Currency = strings.ToUpper(t.Currency)
}

type requestKey struct{}

// prepare binds a route to controller and runs the listener for it.
func prepare(l *v.Listener, apiKey, controller string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, err := io.ReadAll(r.Body)
			if err != nil {
				writeError(w, apierror.InvalidRequest("Request body cannot be read", err))
				return
			}
			req := &v.Request{
				Controller:  controller,
				ContentType: r.Header.Get("Content-Type"),
				Attributes:  map[string]any{v.APIKeyAttribute: apiKey},
				Query:       r.URL.Query(),
				Body:        body,
			}
			if err := l.OnController(r.Context(), req); err != nil {
				writeError(w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestKey{}, req)))
		})
	}
}

func writeError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(apierror.StatusCode(err))
	_ = json.NewEncoder(w).Encode(apierror.Normalize(err))
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	cfg, err := v.LoadConfig(context.Background(), strings.NewReader(config))
	if err != nil {
		logger.Error("load config", slog.Any("error", err))
		os.Exit(1)
	}
	apis, err := cfg.Build()
	if err != nil {
		logger.Error("build apis", slog.Any("error", err))
		os.Exit(1)
	}

	manager := v.NewManager(v.NewStaticResolver(apis...), v.WithMappers(v.NewStructMapper[Transfer]("transfer")))
	listener := v.NewListener(manager, v.WithLogger(logger))

	doc := openapi.DocBase("Wallet API (chi)", "Demonstrates restvalidation with chi", "0.1.0")
	openapi.Post(doc, "/transfers", "createTransfer", openapi.Endpoint{
		Summary:          "Create a transfer",
		Request:          Transfer{},
		Response:         Transfer{},
		PathConverter:    pathconv.CamelToSnake{},
		ValidationErrors: true,
	})

	r := chi.NewRouter()
	r.Get("/openapi.json", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(doc)
	})
	r.With(prepare(listener, "wallet", "transfers.create")).Post("/transfers", func(w http.ResponseWriter, r *http.Request) {
		req, _ := r.Context().Value(requestKey{}).(*v.Request)
		transfer, _ := req.Attribute("transfer")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(transfer)
	})

	logger.Info("listening", slog.String("addr", ":8080"))
	if err := http.ListenAndServe(":8080", r); err != nil {
		logger.Error("serve", slog.Any("error", err))
		os.Exit(1)
	}
}
