package violation

import (
	"iter"
	"slices"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Properties maps converted field names to their messages. Fields iterate in
// the order they first appeared; messages keep the order they were reported.
// A Properties value has no exported mutators.
type Properties struct {
	m *orderedmap.OrderedMap[string, []string]
}

// Group collects the messages of vs by field.
func Group(vs []Violation) *Properties {
	m := orderedmap.New[string, []string]()
	for _, v := range vs {
		msgs, _ := m.Get(v.field)
		m.Set(v.field, append(msgs, v.message))
	}
	return &Properties{m: m}
}

// Len returns the number of distinct fields.
func (p *Properties) Len() int {
	if p == nil || p.m == nil {
		return 0
	}
	return p.m.Len()
}

// Keys returns the field names in first-seen order.
func (p *Properties) Keys() []string {
	keys := make([]string, 0, p.Len())
	for k := range p.All() {
		keys = append(keys, k)
	}
	return keys
}

// Get returns a copy of the messages reported for field.
func (p *Properties) Get(field string) ([]string, bool) {
	if p.Len() == 0 {
		return nil, false
	}
	msgs, ok := p.m.Get(field)
	return slices.Clone(msgs), ok
}

// All iterates fields and copies of their messages in first-seen order.
func (p *Properties) All() iter.Seq2[string, []string] {
	return func(yield func(string, []string) bool) {
		if p.Len() == 0 {
			return
		}
		for pair := p.m.Oldest(); pair != nil; pair = pair.Next() {
			if !yield(pair.Key, slices.Clone(pair.Value)) {
				return
			}
		}
	}
}

// Map returns an unordered copy of the properties.
func (p *Properties) Map() map[string][]string {
	out := make(map[string][]string, p.Len())
	for k, msgs := range p.All() {
		out[k] = msgs
	}
	return out
}

// MarshalJSON encodes the properties as a JSON object in first-seen field order.
func (p *Properties) MarshalJSON() ([]byte, error) {
	if p.Len() == 0 {
		return []byte("{}"), nil
	}
	return p.m.MarshalJSON()
}
