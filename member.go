package constmodel

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Member is one record of a model: a name plus one value per field of its
// owning model. Members are immutable after construction; identity is pointer
// identity. A member propagated into an ancestor model still reports the model
// that declared it.
type Member struct {
	model  *Model
	name   string
	values map[string]any
	raw    []any
}

// Name returns the member's declaration name (ALL_UPPERCASE).
func (m *Member) Name() string { return m.name }

// Model returns the owning model: the one whose declaration created the
// member, never an ancestor that merely gained a reference.
func (m *Member) Model() *Model { return m.model }

// ModelName returns the owning model's name.
func (m *Member) ModelName() string { return m.model.name }

// Raw returns the original declaration values, pre-zip. Used as the implicit
// reverse-lookup index key.
func (m *Member) Raw() []any { return m.raw }

// Value returns the member's value for field, reporting whether the field
// exists on the member. Members only carry the fields of their owning model,
// so siblings in one ancestor may expose different field sets.
func (m *Member) Value(field string) (any, bool) {
	v, ok := m.values[field]
	return v, ok
}

// AsDict returns a flattened field → value mapping of the member, for
// serialization adapters. The map is a copy.
func (m *Member) AsDict() map[string]any {
	out := make(map[string]any, len(m.values))
	for k, v := range m.values {
		out[k] = v
	}
	return out
}

// String renders the member for diagnostics, e.g.
// <PLACE.PARIS: name="Paris", continent="Europe">.
func (m *Member) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "<%s.%s: ", m.model.name, m.name)
	for i, field := range m.model.fields {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s=%#v", field, m.values[field])
	}
	b.WriteString(">")
	return b.String()
}

// MarshalJSON serializes the member as its field mapping.
func (m *Member) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.AsDict())
}
