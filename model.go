package constmodel

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/constkit/constmodel/internal/index"
)

// Pseudo-fields accepted in criteria alongside declared field names.
const (
	// FieldMemberName queries by declaration name via the by-name map.
	FieldMemberName = "_member_name"
	// FieldRawValue queries by the original declaration literal.
	FieldRawValue = "_raw_value"
)

var modelNameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// registryMu serializes construction (write lock) against queries (read
// lock). Propagation mutates every transitively reachable ancestor, so a
// partially propagated state must never be observable from a reader.
var registryMu sync.RWMutex

// Model is a named collection of members with per-field secondary indexes.
// A model is built once by New and is read-only afterwards.
type Model struct {
	name        string
	fields      []string
	indexFields []string
	parents     []*Model
	submodels   []*Model

	members []*Member          // declaration order, then propagation order
	byName  map[string]*Member // member name → member
	idx     *index.Buckets[*Member]

	placeholder Placeholder
	log         *zap.Logger
}

// New builds a model from its declarations. Members are constructed in
// declaration order, registered into the model's indexes, and propagated into
// every ancestor model. Construction errors indicate a broken static
// definition and should halt the program.
func New(name string, opts ...Option) (*Model, error) {
	cfg := &modelConfig{}
	for _, o := range opts {
		o(cfg)
	}

	if !modelNameRegex.MatchString(name) {
		return nil, fmt.Errorf("%w: model name %q must be alphanumeric with underscores and hyphens", ErrConstruction, name)
	}

	registryMu.Lock()
	defer registryMu.Unlock()

	fields := cfg.fields
	if len(fields) == 0 {
		fields = inheritedFields(cfg.parents)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: model %q: at least one field must be defined", ErrConstruction, name)
	}
	if err := validateFields(name, fields); err != nil {
		return nil, err
	}

	indexFields := cfg.indexFields
	if indexFields == nil {
		indexFields = fields
	}
	for _, f := range indexFields {
		if !contains(fields, f) {
			return nil, fmt.Errorf("%w: model %q: index field %q is not a declared field", ErrConstruction, name, f)
		}
	}

	log := cfg.log
	if log == nil {
		log = zap.NewNop()
	}

	idxFields := append(append([]string(nil), indexFields...), FieldRawValue)
	m := &Model{
		name:        name,
		fields:      append([]string(nil), fields...),
		indexFields: append([]string(nil), indexFields...),
		parents:     append([]*Model(nil), cfg.parents...),
		byName:      make(map[string]*Member),
		idx:         index.New[*Member](idxFields...),
		placeholder: cfg.placeholder,
		log:         log,
	}

	for _, d := range cfg.declarations {
		if err := m.declare(d); err != nil {
			return nil, err
		}
	}

	if err := m.populateAncestors(m); err != nil {
		return nil, err
	}

	return m, nil
}

// MustNew is New, panicking on construction errors.
func MustNew(name string, opts ...Option) *Model {
	m, err := New(name, opts...)
	if err != nil {
		panic(err)
	}
	return m
}

// declare resolves one declaration into a member and attaches it.
func (m *Model) declare(d declaration) error {
	if err := validateMemberName(m.name, d.name); err != nil {
		return err
	}

	switch d.kind {
	case declRef:
		if d.ref == nil {
			return fmt.Errorf("%w: model %q: Attach(%q) with nil member", ErrConstruction, m.name, d.name)
		}
		return m.attach(d.name, d.ref)
	default:
		if len(d.values) != len(m.fields) {
			return fmt.Errorf("%w: model %q member %q: %d values for %d fields",
				ErrFieldCount, m.name, d.name, len(d.values), len(m.fields))
		}
		values := make(map[string]any, len(m.fields))
		for i, f := range m.fields {
			values[f] = d.values[i]
		}
		mem := &Member{
			model:  m,
			values: values,
			raw:    append([]any(nil), d.values...),
		}
		return m.attach(d.name, mem)
	}
}

// attach registers a member under name: sets the member name exactly once,
// then records it in the member store and indexes. Attaching the same member
// under the same name again is a no-op, which makes propagation idempotent
// per (member, ancestor) pair.
func (m *Model) attach(name string, mem *Member) error {
	if existing, ok := m.byName[name]; ok {
		if existing == mem {
			return nil
		}
		return fmt.Errorf("%w: %s.%s already exists as %s", ErrDuplicateMember, m.name, name, existing)
	}
	if mem.name != "" && mem.name != name {
		return fmt.Errorf("%w: cannot attach %s to %s.%s", ErrMemberRenamed, mem, m.name, name)
	}
	mem.name = name

	m.members = append(m.members, mem)
	m.byName[name] = mem
	m.indexMember(mem)

	m.log.Debug("member attached",
		zap.String("model", m.name),
		zap.String("member", name),
		zap.String("owner", mem.model.name),
	)
	return nil
}

// indexMember inserts the member into every index field it has a value for,
// plus the raw-value pseudo-field. Fields absent on the member are skipped;
// heterogeneous field sets across sibling submodels are expected.
func (m *Model) indexMember(mem *Member) {
	m.idx.Insert(FieldRawValue, index.Key(mem.raw), mem)
	for _, f := range m.indexFields {
		v, ok := mem.Value(f)
		if !ok {
			continue
		}
		m.idx.Insert(f, index.Key(v), mem)
	}
}

// populateAncestors pushes the newly built model's members into every
// ancestor and records the new model as a submodel of each, recursively up
// the parent chain. Ancestors converge to the union of all members declared
// anywhere in their descendant subtree regardless of definition order.
func (m *Model) populateAncestors(child *Model) error {
	for _, parent := range child.parents {
		for _, mem := range m.members {
			if err := parent.attach(mem.name, mem); err != nil {
				return err
			}
		}
		parent.registerSubmodel(m)
		if err := m.populateAncestors(parent); err != nil {
			return err
		}
	}
	return nil
}

func (m *Model) registerSubmodel(sub *Model) {
	for _, s := range m.submodels {
		if s == sub {
			return
		}
	}
	m.submodels = append(m.submodels, sub)
}

// Name returns the model name.
func (m *Model) Name() string { return m.name }

// Fields returns the model's ordered field names.
func (m *Model) Fields() []string {
	return append([]string(nil), m.fields...)
}

// IndexFields returns the indexed field names.
func (m *Model) IndexFields() []string {
	return append([]string(nil), m.indexFields...)
}

// Submodels returns every descendant model that registered with this one.
func (m *Model) Submodels() []*Model {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return append([]*Model(nil), m.submodels...)
}

// String renders the model for diagnostics.
func (m *Model) String() string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return fmt.Sprintf("<Model %s: members=%d fields=[%s]>",
		m.name, len(m.members), strings.Join(m.fields, ", "))
}

// subtreeFields returns the union of field names visible anywhere in the
// model's subtree, in first-seen order. Callers hold registryMu.
func (m *Model) subtreeFields() []string {
	out := append([]string(nil), m.fields...)
	for _, sub := range m.submodels {
		for _, f := range sub.fields {
			if !contains(out, f) {
				out = append(out, f)
			}
		}
	}
	return out
}

func inheritedFields(parents []*Model) []string {
	for _, p := range parents {
		if len(p.fields) > 0 {
			return p.fields
		}
	}
	return nil
}

func validateFields(model string, fields []string) error {
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if f == "" || strings.HasPrefix(f, "_") {
			return fmt.Errorf("%w: model %q: invalid field name %q", ErrConstruction, model, f)
		}
		if seen[f] {
			return fmt.Errorf("%w: model %q: duplicate field name %q", ErrConstruction, model, f)
		}
		seen[f] = true
	}
	return nil
}

// validateMemberName enforces the declaration-name convention: entirely
// uppercase and not underscore-led.
func validateMemberName(model, name string) error {
	if name == "" || strings.HasPrefix(name, "_") || name != strings.ToUpper(name) {
		return fmt.Errorf("%w: model %q: member name %q must be ALL_UPPERCASE", ErrConstruction, model, name)
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
