package transform_test

import (
	"testing"

	"github.com/Gobd/restvalidation/transform"
	"github.com/stretchr/testify/assert"
)

type address struct {
	Street string
	City   *string
}

type customer struct {
	Name      string
	Email     string
	Addresses []address
	Labels    map[string]string
	Home      *address
	hidden    string
	Any       any
}

func TestStructTrimSpace(t *testing.T) {
	city := "  Vilnius "
	c := &customer{
		Name:      "  Ada ",
		Email:     " ADA@EXAMPLE.COM ",
		Addresses: []address{{Street: " Main st  "}},
		Labels:    map[string]string{"tier": " gold "},
		Home:      &address{Street: " Home ", City: &city},
		hidden:    "  untouched ",
		Any:       "  iface  ",
	}
	transform.StructTrimSpace(c)

	assert.Equal(t, "Ada", c.Name)
	assert.Equal(t, "ADA@EXAMPLE.COM", c.Email)
	assert.Equal(t, "Main st", c.Addresses[0].Street)
	assert.Equal(t, "gold", c.Labels["tier"])
	assert.Equal(t, "Home", c.Home.Street)
	assert.Equal(t, "Vilnius", *c.Home.City)
	assert.Equal(t, "  untouched ", c.hidden)
	assert.Equal(t, "  iface  ", c.Any)
}

func TestStructMulti(t *testing.T) {
	c := &customer{Email: " Ada@Example.COM "}
	transform.StructMulti(c, transform.StructTrimSpace, transform.StructToLower)
	assert.Equal(t, "ada@example.com", c.Email)
}

func TestStructStringFunc_IgnoresNonStructPointers(t *testing.T) {
	s := " x "
	assert.NotPanics(t, func() {
		transform.StructStringFunc(s, func(string) string { return "y" })
		transform.StructStringFunc(&s, func(string) string { return "y" })
		transform.StructStringFunc((*customer)(nil), func(string) string { return "y" })
	})
	assert.Equal(t, " x ", s)
}
