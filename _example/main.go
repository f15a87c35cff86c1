// Command example validates JSON orders on a plain net/http server and
// reports violations in the invalid_parameters error envelope, with
// snake_case field paths.
//
// Run:
//
//	go run ./_example
//
// Then try:
//
//	curl -s localhost:8080/orders -d '{"customerName":"","itemCount":0}'
//	curl -s localhost:8080/openapi.json
package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"os"

	v "github.com/Gobd/restvalidation"
	"github.com/Gobd/restvalidation/apierror"
	"github.com/Gobd/restvalidation/openapi"
	"github.com/Gobd/restvalidation/pathconv"
)

// Order is a sample request/response type.
type Order struct {
	CustomerName string  `json:"customerName"`
	ItemCount    int     `json:"itemCount"`
	Total        float64 `json:"total"`
}

func (o *Order) Rules() []*v.FieldRules {
	return []*v.FieldRules{
		v.Field(&o.CustomerName, v.Required, v.Length(1, 200)),
		v.Field(&o.ItemCount, v.Required, v.Min(1)),
		v.Field(&o.Total, v.Required, v.Min(0.01)),
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	conv := pathconv.CamelToSnake{}

	doc := openapi.DocBase("Example API", "Demonstrates restvalidation", "0.1.0")
	openapi.Post(doc, "/orders", "createOrder", openapi.Endpoint{
		Summary:          "Create an order",
		Request:          Order{},
		Response:         Order{},
		PathConverter:    conv,
		ValidationErrors: true,
	})

	http.HandleFunc("/openapi.json", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, doc)
	})
	http.HandleFunc("/orders", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var order Order
		if err := v.DecodeAndValidate(r.Context(), r.Body, &order, conv); err != nil {
			logger.Debug("order rejected", slog.Any("error", err))
			writeJSON(w, apierror.StatusCode(err), apierror.Normalize(err))
			return
		}
		writeJSON(w, http.StatusOK, order)
	})

	logger.Info("listening", slog.String("addr", ":8080"))
	if err := http.ListenAndServe(":8080", nil); err != nil {
		logger.Error("serve", slog.Any("error", err))
		os.Exit(1)
	}
}
