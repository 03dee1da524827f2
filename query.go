package constmodel

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/constkit/constmodel/internal/index"
	"github.com/constkit/constmodel/internal/metrics"
)

// C is a flat AND-equality criteria set: field name → expected value. The
// pseudo-fields FieldMemberName and FieldRawValue are accepted alongside
// declared field names.
type C map[string]any

// String renders the criteria with sorted keys, for error messages.
func (c C) String() string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s=%#v", k, c[k])
	}
	return b.String()
}

// Members is an ordered query result set bound to the model it came from.
type Members struct {
	model *Model
	items []*Member
}

// Len returns the number of members in the result.
func (ms Members) Len() int { return len(ms.items) }

// At returns the i-th member.
func (ms Members) At(i int) *Member { return ms.items[i] }

// Slice returns the members as a fresh slice.
func (ms Members) Slice() []*Member {
	return append([]*Member(nil), ms.items...)
}

// All returns every member of the model: its own declarations in declaration
// order, then members gained from descendant models in the order their
// submodels were defined.
func (m *Model) All() Members {
	registryMu.RLock()
	defer registryMu.RUnlock()
	metrics.QueriesTotal.WithLabelValues(m.name, "all").Inc()
	return Members{model: m, items: append([]*Member(nil), m.members...)}
}

// Filter returns the members matching every criteria entry.
//
// Candidates are gathered from the per-field indexes (the member-name map is
// consulted first and short-circuits on a miss), then each candidate is
// verified against every criteria field by deep equality. Declared but
// unindexed fields are skipped during probing; when no criteria field could
// be probed at all, the resolver degrades to a linear scan so verification
// still runs. A wholly undeclared field is an InvalidFieldError.
func (m *Model) Filter(criteria C) (Members, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	metrics.QueriesTotal.WithLabelValues(m.name, "filter").Inc()
	return m.filterLocked(criteria)
}

// filterLocked answers a filter without touching the per-operation query
// counter, so Get queries count once under "get". Callers hold registryMu.
func (m *Model) filterLocked(criteria C) (Members, error) {
	if len(criteria) == 0 {
		return Members{model: m, items: append([]*Member(nil), m.members...)}, nil
	}

	candidates, ok, err := m.indexSearch(criteria)
	if err != nil {
		return Members{model: m}, err
	}
	if !ok {
		return Members{model: m}, nil
	}

	var results []*Member
	verified := make(map[*Member]bool, len(candidates))
	for _, cand := range candidates {
		if verified[cand] {
			continue
		}
		if m.matches(cand, criteria) {
			verified[cand] = true
			results = append(results, cand)
		}
	}
	return Members{model: m, items: results}, nil
}

// indexSearch gathers candidate members for the criteria. The second return
// is false when a member-name miss proves the result empty without touching
// any other index.
func (m *Model) indexSearch(criteria C) ([]*Member, bool, error) {
	var candidates []*Member
	probed := false

	// Member-name lookups process first: there is no point in hitting the
	// other indexes if we miss here.
	if raw, ok := criteria[FieldMemberName]; ok {
		name, isStr := raw.(string)
		mem := m.byName[name]
		if !isStr || mem == nil {
			metrics.IndexProbesTotal.WithLabelValues(m.name, "miss").Inc()
			return nil, false, nil
		}
		metrics.IndexProbesTotal.WithLabelValues(m.name, "hit").Inc()
		candidates = append(candidates, mem)
		probed = true
	}

	known := m.subtreeFields()
	for _, field := range sortedFields(criteria) {
		if field == FieldMemberName {
			continue
		}
		switch {
		case m.idx.Has(field):
			bucket := m.idx.Probe(field, index.Key(criteria[field]))
			if len(bucket) == 0 {
				metrics.IndexProbesTotal.WithLabelValues(m.name, "miss").Inc()
			} else {
				metrics.IndexProbesTotal.WithLabelValues(m.name, "hit").Inc()
			}
			candidates = append(candidates, bucket...)
			probed = true
		case contains(known, field):
			// Declared somewhere in the subtree but not indexed here:
			// defer the field to the verification pass.
			metrics.IndexProbesTotal.WithLabelValues(m.name, "skip").Inc()
		default:
			return nil, false, &InvalidFieldError{Model: m.name, Field: field}
		}
	}

	if !probed {
		metrics.FullScansTotal.WithLabelValues(m.name).Inc()
		candidates = append(candidates, m.members...)
	}
	return candidates, true, nil
}

// matches verifies a candidate against every criteria field. Index probes are
// approximate (key normalization may collide); this pass is exact.
func (m *Model) matches(mem *Member, criteria C) bool {
	for field, want := range criteria {
		switch field {
		case FieldMemberName:
			name, isStr := want.(string)
			if !isStr || m.byName[name] != mem {
				return false
			}
		case FieldRawValue:
			if !reflect.DeepEqual(mem.raw, want) {
				return false
			}
		default:
			got, ok := mem.Value(field)
			if !ok || !reflect.DeepEqual(got, want) {
				return false
			}
		}
	}
	return true
}

// Get returns the single member matching the criteria. Zero matches yield a
// DoesNotExistError, more than one a MultipleReturnedError; both carry the
// model name and criteria.
func (m *Model) Get(criteria C) (*Member, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	metrics.QueriesTotal.WithLabelValues(m.name, "get").Inc()
	results, err := m.filterLocked(criteria)
	if err != nil {
		return nil, err
	}
	switch results.Len() {
	case 0:
		return nil, &DoesNotExistError{Model: m.name, Criteria: criteria}
	case 1:
		return results.At(0), nil
	default:
		return nil, &MultipleReturnedError{Model: m.name, Criteria: criteria, Count: results.Len()}
	}
}

// GetOrNil is Get with the not-found case suppressed to a nil member.
// Invalid-field and multiple-match errors still surface.
func (m *Model) GetOrNil(criteria C) (*Member, error) {
	mem, err := m.Get(criteria)
	if errors.Is(err, ErrDoesNotExist) {
		return nil, nil
	}
	return mem, err
}

// Member resolves a member by declaration name.
func (m *Model) Member(name string) (*Member, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	mem, ok := m.byName[name]
	if !ok {
		return nil, &DoesNotExistError{Model: m.name, Criteria: C{FieldMemberName: name}}
	}
	return mem, nil
}

// MustMember is Member, panicking when the name is unknown. Intended for
// package-level member handles next to the model definition.
func (m *Model) MustMember(name string) *Member {
	mem, err := m.Member(name)
	if err != nil {
		panic(err)
	}
	return mem
}

func sortedFields(criteria C) []string {
	fields := make([]string, 0, len(criteria))
	for f := range criteria {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}
