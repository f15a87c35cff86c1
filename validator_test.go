package restvalidation_test

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"

	v "github.com/Gobd/restvalidation"
	"github.com/Gobd/restvalidation/apierror"
	"github.com/Gobd/restvalidation/pathconv"
	"github.com/Gobd/restvalidation/violation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============ Test types ============

type valItem struct {
	Name string
}

func (i *valItem) Rules() []*v.FieldRules {
	return []*v.FieldRules{
		v.Field(&i.Name, v.Required, v.Length(1, 50)),
	}
}

type valRegistry map[string]valItem

type valPerson struct {
	FirstName string
	LastName  string `json:"last_name"`
	Address   *valAddress
}

func (p *valPerson) Rules() []*v.FieldRules {
	return []*v.FieldRules{
		v.Field(&p.FirstName, v.Required),
		v.Field(&p.LastName, v.Required),
		v.Field(&p.Address),
	}
}

type valAddress struct {
	StreetName string `json:"streetName"`
	ZipCode    string `json:"zipCode"`
}

var digits = regexp.MustCompile(`^[0-9]+$`)

func (a *valAddress) Rules() []*v.FieldRules {
	return []*v.FieldRules{
		v.Field(&a.StreetName, v.Required),
		v.Field(&a.ZipCode, v.Length(5, 5), v.Match(digits, "must contain only digits")),
	}
}

type valOrder struct {
	Items  []valItem          `json:"items"`
	Limits map[string]valItem `json:"limits"`
	Tags   []string           `json:"tags"`
}

func (o *valOrder) Rules() []*v.FieldRules {
	return []*v.FieldRules{
		v.Field(&o.Items, v.Unique(func(i int) any { return o.Items[i].Name }, "names are unique")),
		v.Field(&o.Limits),
		v.Field(&o.Tags, v.Each(v.Length(1, 3))),
	}
}

type valBase struct {
	ID string
}

func (b *valBase) Rules() []*v.FieldRules {
	return []*v.FieldRules{
		v.Field(&b.ID, v.Required),
	}
}

type valWithEmbed struct {
	valBase
	Value string
}

func (w *valWithEmbed) Rules() []*v.FieldRules {
	return []*v.FieldRules{
		v.Field(&w.valBase),
		v.Field(&w.Value, v.Required),
	}
}

type paymentMethod string

const (
	paymentACH  paymentMethod = "ach"
	paymentCC   paymentMethod = "cc"
	paymentWire paymentMethod = "wire"
)

func (p paymentMethod) ValueRules() []v.Rule {
	return []v.Rule{v.In(paymentACH, paymentCC, paymentWire)}
}

type orderWithTypedPayment struct {
	Method paymentMethod
}

func (o *orderWithTypedPayment) Rules() []*v.FieldRules {
	return []*v.FieldRules{
		v.Field(&o.Method, v.Required),
	}
}

type rating int

func (r rating) ValueRules() []v.Rule {
	return []v.Rule{v.Min(1), v.Max(5)}
}

type review struct {
	Rating rating
}

func (r *review) Rules() []*v.FieldRules {
	return []*v.FieldRules{
		v.Field(&r.Rating),
	}
}

type valTenantKey struct{}

type valContextRuler struct {
	Tenant string
}

func (c *valContextRuler) Rules(ctx context.Context) []*v.FieldRules {
	allowed, _ := ctx.Value(valTenantKey{}).(string)
	return []*v.FieldRules{
		v.Field(&c.Tenant, v.Required, v.In(allowed)),
	}
}

type valBadRuler struct {
	Name string
}

func (b *valBadRuler) Rules() []*v.FieldRules {
	var other string
	return []*v.FieldRules{
		v.Field(&other, v.Required),
	}
}

type payment struct {
	Amount  float64 `json:"amount"`
	IsDraft bool    `json:"-"`
}

func (p *payment) Rules() []*v.FieldRules {
	return []*v.FieldRules{
		v.Field(&p.Amount, v.When(!p.IsDraft, "not draft", v.Required, v.Min(0.01)).Else(v.Min(0.0))),
	}
}

type valNormalizable struct {
	Email string
}

func (n *valNormalizable) Rules() []*v.FieldRules {
	return []*v.FieldRules{
		v.Field(&n.Email, v.Required, v.Email),
	}
}

func (n *valNormalizable) Normalize() {
	n.Email = strings.ToLower(strings.TrimSpace(n.Email))
}

// staticValidator returns the same raw violations for every entity.
type staticValidator struct {
	list violation.ConstraintList
	err  error
}

func (s staticValidator) Validate(context.Context, any) (violation.ConstraintList, error) {
	return s.list, s.err
}

func rawViolations(t *testing.T, entity any) violation.ConstraintList {
	t.Helper()
	list, err := v.NewRuleValidator().Validate(context.Background(), entity)
	require.NoError(t, err)
	return list
}

func paths(list violation.ConstraintList) []string {
	out := make([]string, len(list))
	for i, c := range list {
		out[i] = c.Path
	}
	return out
}

// ============ Tests ============

func TestRuleValidator_DeclarationOrder(t *testing.T) {
	list := rawViolations(t, &valPerson{})

	assert.Equal(t, violation.ConstraintList{
		{Path: "firstName", Message: "cannot be blank", InvalidValue: ""},
		{Path: "last_name", Message: "cannot be blank", InvalidValue: ""},
	}, list)
}

func TestRuleValidator_NestedStruct(t *testing.T) {
	p := &valPerson{FirstName: "Ann", LastName: "Lee", Address: &valAddress{ZipCode: "12a"}}
	list := rawViolations(t, p)

	assert.Equal(t, []string{"address.streetName", "address.zipCode", "address.zipCode"}, paths(list))
	assert.Equal(t, "the length must be exactly 5", list[1].Message)
	assert.Equal(t, "must contain only digits", list[2].Message)
}

func TestRuleValidator_Collections(t *testing.T) {
	o := &valOrder{
		Items: []valItem{{Name: "a"}, {Name: ""}},
		Limits: map[string]valItem{
			"weekly": {Name: ""},
			"daily":  {Name: ""},
			"ok":     {Name: "fine"},
		},
		Tags: []string{"ok", "toolong", "no"},
	}
	list := rawViolations(t, o)

	assert.Equal(t, []string{
		"items[1].name",
		"limits[daily].name",
		"limits[weekly].name",
		"tags[1]",
	}, paths(list))
	assert.Equal(t, "the length must be between 1 and 3", list[3].Message)
}

func TestRuleValidator_Unique(t *testing.T) {
	list := rawViolations(t, &valOrder{Items: []valItem{{Name: "same"}, {Name: "same"}}})

	require.Len(t, list, 1)
	assert.Equal(t, "items", list[0].Path)
	assert.Contains(t, list[0].Message, "must not contain duplicates")
}

func TestRuleValidator_TopLevelCollections(t *testing.T) {
	items := []valItem{{Name: "alpha"}, {Name: ""}}
	assert.Equal(t, []string{"[1].name"}, paths(rawViolations(t, &items)))

	reg := valRegistry{"ok": {Name: "alpha"}, "bad": {Name: ""}}
	assert.Equal(t, []string{"[bad].name"}, paths(rawViolations(t, &reg)))
}

func TestRuleValidator_Embedded(t *testing.T) {
	assert.Equal(t, []string{"id", "value"}, paths(rawViolations(t, &valWithEmbed{})))
}

func TestRuleValidator_ValueRuler(t *testing.T) {
	list := rawViolations(t, &orderWithTypedPayment{Method: "bitcoin"})
	require.Len(t, list, 1)
	assert.Equal(t, "method", list[0].Path)
	assert.Equal(t, "must be one of 'ach', 'cc', 'wire' got 'bitcoin'", list[0].Message)

	list = rawViolations(t, &orderWithTypedPayment{})
	require.Len(t, list, 1)
	assert.Equal(t, "cannot be blank", list[0].Message)

	assert.Empty(t, rawViolations(t, &review{Rating: 3}))
	assert.Equal(t, []string{"rating"}, paths(rawViolations(t, &review{Rating: 10})))
}

func TestRuleValidator_ContextRuler(t *testing.T) {
	ctx := context.WithValue(context.Background(), valTenantKey{}, "acme")

	list, err := v.NewRuleValidator().Validate(ctx, &valContextRuler{Tenant: "other"})
	require.NoError(t, err)
	assert.Equal(t, []string{"tenant"}, paths(list))

	list, err = v.NewRuleValidator().Validate(ctx, &valContextRuler{Tenant: "acme"})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestRuleValidator_When(t *testing.T) {
	assert.Equal(t, []string{"amount"}, paths(rawViolations(t, &payment{})))
	assert.Empty(t, rawViolations(t, &payment{IsDraft: true}))
	assert.Empty(t, rawViolations(t, &payment{Amount: 10}))
}

func TestRuleValidator_NilAndEmpty(t *testing.T) {
	var items []valItem
	var reg valRegistry
	var p *valItem

	assert.Empty(t, rawViolations(t, &items))
	assert.Empty(t, rawViolations(t, &[]valItem{}))
	assert.Empty(t, rawViolations(t, &reg))
	assert.Empty(t, rawViolations(t, p))
	assert.Empty(t, rawViolations(t, nil))
	assert.Empty(t, rawViolations(t, "anything"))
}

func TestRuleValidator_RuleOutsideStruct(t *testing.T) {
	_, err := v.NewRuleValidator().Validate(context.Background(), &valBadRuler{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found in struct")
}

func TestRuleValidator_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := v.NewRuleValidator().Validate(ctx, &valItem{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestValidateEntity(t *testing.T) {
	raw := violation.ConstraintList{
		{Path: "firstName", Message: "firstName message"},
		{Path: "last_name", Message: "lastName message"},
	}

	tests := []struct {
		name      string
		converter pathconv.Converter
		want      map[string][]string
		wantKeys  []string
	}{
		{
			name:      "camel to snake",
			converter: pathconv.CamelToSnake{},
			wantKeys:  []string{"first_name", "last_name"},
			want: map[string][]string{
				"first_name": {"firstName message"},
				"last_name":  {"lastName message"},
			},
		},
		{
			name:      "no op",
			converter: pathconv.NoOp{},
			wantKeys:  []string{"firstName", "last_name"},
			want: map[string][]string{
				"firstName": {"firstName message"},
				"last_name": {"lastName message"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateEntity(context.Background(), staticValidator{list: raw}, struct{}{}, tt.converter)
			require.ErrorIs(t, err, apierror.ErrValidationFailed)

			e, ok := apierror.As(err)
			require.True(t, ok)
			assert.Equal(t, apierror.CodeInvalidParameters, e.Code())
			assert.Equal(t, tt.wantKeys, e.Properties().Keys())
			assert.Equal(t, tt.want, e.Properties().Map())
			require.Len(t, e.Violations(), 2)
			assert.Equal(t, tt.wantKeys[0], e.Violations()[0].Field())
		})
	}
}

func TestValidateEntity_NoViolations(t *testing.T) {
	err := v.ValidateEntity(context.Background(), staticValidator{}, struct{}{}, pathconv.CamelToSnake{})
	assert.NoError(t, err)
}

func TestValidateEntity_ValidatorError(t *testing.T) {
	boom := errors.New("boom")
	err := v.ValidateEntity(context.Background(), staticValidator{err: boom}, struct{}{}, nil)
	assert.Same(t, boom, err)
}

func TestValidate_Message(t *testing.T) {
	err := v.Validate(&valPerson{FirstName: "Ann"})
	require.Error(t, err)
	assert.Equal(t, "invalid_parameters: Request validation failed: last_name: cannot be blank", err.Error())

	assert.NoError(t, v.Validate(&valItem{Name: "test"}))
}

func TestDecodeAndValidate(t *testing.T) {
	var n valNormalizable
	err := v.DecodeAndValidate(context.Background(), strings.NewReader(`{"Email":"  Bob@Example.COM "}`), &n, nil)
	require.NoError(t, err)
	assert.Equal(t, "bob@example.com", n.Email)

	err = v.DecodeAndValidate(context.Background(), strings.NewReader(`{"Email":"nope"}`), &valNormalizable{}, pathconv.CamelToSnake{})
	e, ok := apierror.As(err)
	require.True(t, ok)
	assert.Equal(t, []string{"email"}, e.Properties().Keys())

	err = v.DecodeAndValidate(context.Background(), strings.NewReader(`{`), &valNormalizable{}, nil)
	assert.ErrorIs(t, err, apierror.ErrInvalidRequest)
}
