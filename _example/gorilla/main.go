// Command gorilla demonstrates restvalidation with gorilla/mux: the route
// name is the controller, the {api} path variable selects the API, and a
// router middleware runs the listener for every matched route.
//
// Run:
//
//	cd _example/gorilla && go run .
//
// Then try:
//
//	curl -s 'localhost:8080/apis/shop/orders?status=lost&limit=500'
//	curl -s localhost:8080/apis/shop/orders -d '{"customerName":" ","items":[{"sku":""}]}'
package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"os"

	v "github.com/Gobd/restvalidation"
	"github.com/Gobd/restvalidation/apierror"
	"github.com/Gobd/restvalidation/pathconv"
	"github.com/gorilla/mux"
)

type OrderItem struct {
	SKU      string `json:"sku"`
	Quantity int    `json:"quantity"`
}

func (i *OrderItem) Rules() []*v.FieldRules {
	return []*v.FieldRules{
		v.Field(&i.SKU, v.Required),
		v.Field(&i.Quantity, v.Min(1)),
	}
}

type Order struct {
	CustomerName string      `json:"customerName"`
	Items        []OrderItem `json:"items"`
}

func (o *Order) Rules() []*v.FieldRules {
	return []*v.FieldRules{
		v.Field(&o.CustomerName, v.Required, v.Length(1, 200)),
		v.Field(&o.Items, v.Required),
	}
}

type OrderFilter struct {
	Status string `json:"status"`
	Limit  int    `json:"limit"`
}

func (f *OrderFilter) Rules() []*v.FieldRules {
	return []*v.FieldRules{
		v.Field(&f.Status, v.In("open", "shipped")),
		v.Field(&f.Limit, v.Min(0), v.Max(100)),
	}
}

type requestKey struct{}

// listen runs l for the matched route. Routes without a name are not bound
// to a controller and pass through.
func listen(l *v.Listener) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route := mux.CurrentRoute(r)
			if route == nil || route.GetName() == "" {
				next.ServeHTTP(w, r)
				return
			}
			body, err := io.ReadAll(r.Body)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, apierror.Normalize(apierror.InvalidRequest("Request body cannot be read", err)))
				return
			}
			req := &v.Request{
				Controller:  route.GetName(),
				ContentType: r.Header.Get("Content-Type"),
				Attributes:  map[string]any{v.APIKeyAttribute: mux.Vars(r)["api"]},
				Query:       r.URL.Query(),
				Body:        body,
			}
			if err := l.OnController(r.Context(), req); err != nil {
				writeJSON(w, apierror.StatusCode(err), apierror.Normalize(err))
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestKey{}, req)))
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// attribute writes the entity the listener stored under name.
func attribute(name string, status int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, _ := r.Context().Value(requestKey{}).(*v.Request)
		entity, _ := req.Attribute(name)
		writeJSON(w, status, entity)
	}
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	shop := v.NewAPI("shop").
		SetPathConverter(pathconv.CamelToSnake{}).
		SetTrimStrings(true).
		AddRequestMapper("order", "orders.create", "order").
		AddRequestQueryMapper("order_filter", "orders.list", "filter")

	manager := v.NewManager(v.NewStaticResolver(shop), v.WithMappers(
		v.NewStructMapper[Order]("order"),
		v.NewStructMapper[OrderFilter]("order_filter"),
	))
	listener := v.NewListener(manager, v.WithLogger(logger))

	r := mux.NewRouter()
	r.Use(listen(listener))
	r.HandleFunc("/apis/{api}/orders", attribute("order", http.StatusCreated)).Methods(http.MethodPost).Name("orders.create")
	r.HandleFunc("/apis/{api}/orders", attribute("filter", http.StatusOK)).Methods(http.MethodGet).Name("orders.list")

	logger.Info("listening", slog.String("addr", ":8080"))
	if err := http.ListenAndServe(":8080", r); err != nil {
		logger.Error("serve", slog.Any("error", err))
		os.Exit(1)
	}
}
