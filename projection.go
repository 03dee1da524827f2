package constmodel

import "fmt"

// Choice is a value/display pair for presentation-layer choice widgets.
type Choice struct {
	Value   any
	Display any
}

// Values projects each member onto the requested fields as a map. With no
// fields given, the model's own fields are used. Requested fields must be
// visible somewhere in the model's subtree (or be FieldMemberName).
//
// Placeholder policy: under PlaceholderOmit (default) fields absent on a
// member are left out of its map, and members with none of the requested
// fields are dropped; under PlaceholderNull absent fields appear as nil.
func (ms Members) Values(fields ...string) ([]map[string]any, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	fields, err := ms.projectionFields(fields)
	if err != nil {
		return nil, err
	}

	results := make([]map[string]any, 0, len(ms.items))
	for _, mem := range ms.items {
		row := make(map[string]any, len(fields))
		for _, f := range fields {
			v, ok := memberField(mem, f)
			if ok {
				row[f] = v
			} else if ms.model.placeholder == PlaceholderNull {
				row[f] = nil
			}
		}
		if len(row) == 0 {
			continue
		}
		results = append(results, row)
	}
	return results, nil
}

// ValuesList projects each member onto the requested fields as a value tuple.
// Absent fields yield a nil placeholder so every row has the same arity.
func (ms Members) ValuesList(fields ...string) ([][]any, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	fields, err := ms.projectionFields(fields)
	if err != nil {
		return nil, err
	}

	results := make([][]any, 0, len(ms.items))
	for _, mem := range ms.items {
		row := make([]any, len(fields))
		for i, f := range fields {
			v, _ := memberField(mem, f)
			row[i] = v
		}
		results = append(results, row)
	}
	return results, nil
}

// Flat is ValuesList flattened into a single sequence. Fields absent on a
// member are omitted outright; present values are kept even when falsy.
func (ms Members) Flat(fields ...string) ([]any, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	fields, err := ms.projectionFields(fields)
	if err != nil {
		return nil, err
	}

	var results []any
	for _, mem := range ms.items {
		for _, f := range fields {
			if v, ok := memberField(mem, f); ok {
				results = append(results, v)
			}
		}
	}
	return results, nil
}

// projectionFields validates a requested field subset against the union of
// field names visible in the model's subtree, defaulting to the model's own
// fields. Callers hold registryMu.
func (ms Members) projectionFields(fields []string) ([]string, error) {
	if len(fields) == 0 {
		return ms.model.fields, nil
	}
	visible := ms.model.subtreeFields()
	for _, f := range fields {
		if f == FieldMemberName || contains(visible, f) {
			continue
		}
		return nil, &InvalidFieldError{Model: ms.model.name, Field: f}
	}
	return fields, nil
}

func memberField(mem *Member, field string) (any, bool) {
	if field == FieldMemberName {
		return mem.name, true
	}
	return mem.Value(field)
}

// Choices returns value/display pairs for the members matching the criteria,
// drawn from at most two of the model's own fields. With no fields given the
// first two declared fields are used; a single field is duplicated into both
// slots.
func (m *Model) Choices(criteria C, fields ...string) ([]Choice, error) {
	if len(fields) > 2 {
		return nil, fmt.Errorf("%w: %s.Choices takes at most 2 fields, got %d", ErrInvalidField, m.name, len(fields))
	}
	for _, f := range fields {
		if !contains(m.fields, f) {
			return nil, &InvalidFieldError{Model: m.name, Field: f}
		}
	}
	if len(fields) == 0 {
		fields = m.fields
		if len(fields) > 2 {
			fields = fields[:2]
		}
	}
	if len(fields) == 1 {
		fields = []string{fields[0], fields[0]}
	}

	results, err := m.Filter(criteria)
	if err != nil {
		return nil, err
	}
	rows, err := results.ValuesList(fields...)
	if err != nil {
		return nil, err
	}

	choices := make([]Choice, len(rows))
	for i, row := range rows {
		choices[i] = Choice{Value: row[0], Display: row[1]}
	}
	return choices, nil
}
