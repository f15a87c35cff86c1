package restvalidation_test

import (
	"context"
	"encoding/json"
	"net/url"
	"testing"

	v "github.com/Gobd/restvalidation"
	"github.com/Gobd/restvalidation/pathconv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequest_QueryData(t *testing.T) {
	r := &v.Request{Query: url.Values{"page": {"2"}, "tags": {"a", "b"}}}
	assert.Equal(t, map[string]any{"page": "2", "tags": []string{"a", "b"}}, r.QueryData())
}

func TestRequest_Attributes(t *testing.T) {
	var r v.Request
	_, ok := r.Attribute("x")
	assert.False(t, ok)

	r.SetAttribute("x", 1)
	got, ok := r.Attribute("x")
	assert.True(t, ok)
	assert.Equal(t, 1, got)
}

func TestJSONDecoder(t *testing.T) {
	var d v.JSONDecoder

	data, err := d.Decode([]byte(`{"amount": 12.50, "name": "x"}`))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"amount": json.Number("12.50"), "name": "x"}, data)

	data, err = d.Decode([]byte("  \n"))
	require.NoError(t, err)
	assert.Empty(t, data)

	_, err = d.Decode([]byte(`[1, 2]`))
	assert.Error(t, err)
}

func TestContentTypeDetector(t *testing.T) {
	d := v.NewContentTypeDetector()
	d.Formats["application/xml"] = "xml"

	tests := map[string]string{
		"":                                "json",
		"application/json":                "json",
		"Application/JSON; charset=utf-8": "json",
		"application/problem+json":        "json",
		"application/xml":                 "xml",
		"text/plain":                      "json",
		";;;":                             "json",
	}
	for contentType, want := range tests {
		assert.Equal(t, want, d.RequestFormat(&v.Request{ContentType: contentType}), contentType)
	}
}

func TestStructMapper(t *testing.T) {
	m := v.NewStructMapper[transferRequest]("transfer")
	assert.Equal(t, "transfer", m.Name())

	got, err := m.MapToEntity(context.Background(), map[string]any{
		"firstName": "Ann",
		"amount":    "3.5",
		"unknown":   true,
	})
	require.NoError(t, err)
	assert.Equal(t, &transferRequest{FirstName: "Ann", Amount: 3.5}, got)

	_, err = m.MapToEntity(context.Background(), map[string]any{"amount": []any{"x"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "map transfer")
}

func TestManager_Registry(t *testing.T) {
	m := v.NewManager(nil)

	_, err := m.Decoder("xml")
	assert.ErrorIs(t, err, v.ErrUnsupportedFormat)
	d, err := m.Decoder("json")
	require.NoError(t, err)
	assert.IsType(t, v.JSONDecoder{}, d)

	_, err = m.Mapper("transfer")
	assert.ErrorIs(t, err, v.ErrNoMapper)
	m.AddMapper(v.NewStructMapper[transferRequest]("transfer"))
	_, err = m.Mapper("transfer")
	assert.NoError(t, err)

	assert.Nil(t, m.APIForRequest(apiRequest("c")))
}

func TestAPI(t *testing.T) {
	a := v.NewAPI("wallet")
	assert.Equal(t, "wallet", a.Key())
	assert.Equal(t, pathconv.NoOp{}, a.PathConverter())

	a.SetPathConverter(pathconv.CamelToSnake{})
	assert.Equal(t, pathconv.CamelToSnake{}, a.PathConverter())
	a.SetPathConverter(nil)
	assert.Equal(t, pathconv.NoOp{}, a.PathConverter())

	a.AddRequestMapper("m1", "c", "p1").AddRequestQueryMapper("m2", "c", "p2")
	bindings := a.Bindings("c")
	assert.Equal(t, []v.Binding{
		{Mapper: "m1", Parameter: "p1", Kind: v.BodyBinding},
		{Mapper: "m2", Parameter: "p2", Kind: v.QueryBinding},
	}, bindings)

	bindings[0].Mapper = "changed"
	assert.Equal(t, "m1", a.Bindings("c")[0].Mapper)
	assert.Empty(t, a.Bindings("other"))

	assert.True(t, a.ShouldLogRequest("c"))
	a.DontLogRequest("c")
	assert.False(t, a.ShouldLogRequest("c"))
}

func TestStaticResolver(t *testing.T) {
	wallet := v.NewAPI("wallet")
	res := v.NewStaticResolver(wallet, v.NewAPI("shop"))

	r := &v.Request{Attributes: map[string]any{v.APIKeyAttribute: "wallet"}}
	assert.Equal(t, "wallet", res.APIKeyForRequest(r))
	assert.Same(t, wallet, res.APIForRequest(r))

	assert.Nil(t, res.APIForRequest(&v.Request{}))
	assert.Nil(t, res.APIForRequest(&v.Request{Attributes: map[string]any{v.APIKeyAttribute: 1}}))
}
