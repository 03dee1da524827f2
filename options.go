package constmodel

import "go.uber.org/zap"

// Placeholder controls how map projections (Values) render fields absent on a
// member. Tuple projections (ValuesList) always emit a nil placeholder so row
// arity stays stable.
type Placeholder int

const (
	// PlaceholderOmit drops absent fields from map projections (default).
	PlaceholderOmit Placeholder = iota
	// PlaceholderNull emits an explicit nil entry for absent fields.
	PlaceholderNull
)

// declKind distinguishes the two member declaration sources.
type declKind int

const (
	declValues declKind = iota // positional field values
	declRef                    // an already-built member re-attached by name
)

type declaration struct {
	kind   declKind
	name   string
	values []any
	ref    *Member
}

type modelConfig struct {
	fields       []string
	indexFields  []string
	parents      []*Model
	declarations []declaration
	placeholder  Placeholder
	log          *zap.Logger
}

// Option configures model construction.
type Option func(*modelConfig)

// Fields sets the model's ordered field names. When omitted, fields are
// inherited from the nearest ancestor that defines them.
func Fields(names ...string) Option {
	return func(c *modelConfig) { c.fields = names }
}

// IndexFields restricts which fields get a secondary index. Defaults to all
// declared fields. Unindexed fields are still queryable via linear scan.
func IndexFields(names ...string) Option {
	return func(c *modelConfig) { c.indexFields = names }
}

// Extends designates existing models as ancestors. The new model does not
// inherit the ancestors' members, but every member it declares becomes visible
// through each ancestor's member set and indexes.
func Extends(parents ...*Model) Option {
	return func(c *modelConfig) { c.parents = append(c.parents, parents...) }
}

// Declare adds a member declaration with positional field values. The name
// must be ALL_UPPERCASE and must not start with an underscore; the value count
// must match the model's field count. Declaration order is preserved.
func Declare(name string, values ...any) Option {
	return func(c *modelConfig) {
		c.declarations = append(c.declarations, declaration{
			kind: declValues, name: name, values: values,
		})
	}
}

// Attach adds an already-built member to the model under the given name.
// Attaching a member under a name different from the one it already carries is
// a construction error.
func Attach(name string, m *Member) Option {
	return func(c *modelConfig) {
		c.declarations = append(c.declarations, declaration{
			kind: declRef, name: name, ref: m,
		})
	}
}

// WithLogger enables debug logging of member construction and propagation.
func WithLogger(log *zap.Logger) Option {
	return func(c *modelConfig) { c.log = log }
}

// WithPlaceholder sets the projection placeholder policy.
func WithPlaceholder(p Placeholder) Option {
	return func(c *modelConfig) { c.placeholder = p }
}
