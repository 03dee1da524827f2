// Package sqlfield stores constmodel members in single scalar SQL columns.
//
// A Field binds a model to one value field (the column scalar) and one
// display field (for choice widgets). Binding validates every member of the
// model up front, so a member with a wrongly typed value fails at program
// start rather than on first write. Values round-trip through
// database/sql/driver: writing a member stores its value field, scanning a
// stored scalar resolves it back to the member via an indexed Get.
package sqlfield

import (
	"database/sql/driver"
	"errors"
	"fmt"

	"github.com/constkit/constmodel"
)

// Sentinel errors.
var (
	// ErrBadBinding signals a field binding that failed validation.
	ErrBadBinding = errors.New("sqlfield: invalid field binding")
	// ErrUnknownScalar signals a stored scalar that resolves to no member.
	ErrUnknownScalar = errors.New("sqlfield: unknown stored value")
)

type kind int

const (
	kindString kind = iota
	kindInt
)

// Field is a binding between a model and the column representation of its
// members. Build one per column with String or Int.
type Field struct {
	model        *constmodel.Model
	valueField   string
	displayField string
	kind         kind
	int64Valued  bool // kindInt only: members declare int64, not int
}

// Option configures a Field binding.
type Option func(*Field)

// ValueField selects which member field is stored in the column. Defaults to
// the model's first declared field.
func ValueField(name string) Option {
	return func(f *Field) { f.valueField = name }
}

// DisplayField selects which member field is used as the display label in
// Choices. Defaults to the value field.
func DisplayField(name string) Option {
	return func(f *Field) { f.displayField = name }
}

// String binds a model to a string-valued column. Every member's value field
// must hold a string.
func String(m *constmodel.Model, opts ...Option) (*Field, error) {
	return newField(m, kindString, opts)
}

// Int binds a model to an integer-valued column. Every member's value field
// must hold an int or int64.
func Int(m *constmodel.Model, opts ...Option) (*Field, error) {
	return newField(m, kindInt, opts)
}

func newField(m *constmodel.Model, k kind, opts []Option) (*Field, error) {
	f := &Field{model: m, kind: k}
	for _, o := range opts {
		o(f)
	}
	if f.valueField == "" {
		f.valueField = m.Fields()[0]
	}
	if f.displayField == "" {
		f.displayField = f.valueField
	}
	if err := f.validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// validate checks the value and display fields of every member of the bound
// model, including members gained from submodels. Integer bindings must be
// homogeneous: the declared Go type decides how a scanned int64 resolves, so
// mixing int and int64 across members is rejected up front.
func (f *Field) validate() error {
	sawInt, sawInt64 := false, false
	for _, mem := range f.model.All().Slice() {
		v, ok := mem.Value(f.valueField)
		if !ok {
			return fmt.Errorf("%w: member %s has no field %q", ErrBadBinding, mem, f.valueField)
		}
		switch f.kind {
		case kindString:
			if _, ok := v.(string); !ok {
				return fmt.Errorf("%w: field %q of member %s must be a string, got %T",
					ErrBadBinding, f.valueField, mem, v)
			}
		case kindInt:
			switch v.(type) {
			case int:
				sawInt = true
			case int64:
				sawInt64 = true
			default:
				return fmt.Errorf("%w: field %q of member %s must be an integer, got %T",
					ErrBadBinding, f.valueField, mem, v)
			}
			if sawInt && sawInt64 {
				return fmt.Errorf("%w: field %q mixes int and int64 values across members",
					ErrBadBinding, f.valueField)
			}
		}

		display, ok := mem.Value(f.displayField)
		if !ok {
			return fmt.Errorf("%w: member %s has no field %q", ErrBadBinding, mem, f.displayField)
		}
		if _, ok := display.(string); !ok {
			return fmt.Errorf("%w: field %q of member %s must be a string, got %T",
				ErrBadBinding, f.displayField, mem, display)
		}
	}
	f.int64Valued = sawInt64
	return nil
}

// Model returns the bound model.
func (f *Field) Model() *constmodel.Model { return f.model }

// Choices returns value/display pairs for every member, for populating a
// choice widget.
func (f *Field) Choices() ([]constmodel.Choice, error) {
	return f.model.Choices(nil, f.valueField, f.displayField)
}

// Of wraps a member for writing. A nil member stores SQL NULL.
func (f *Field) Of(m *constmodel.Member) *Value {
	return &Value{field: f, member: m}
}

// NewValue returns an empty Value for scanning a column into.
func (f *Field) NewValue() *Value {
	return &Value{field: f}
}

// Value adapts one member to a scalar column. It implements driver.Valuer for
// writes and sql.Scanner for reads.
type Value struct {
	field  *Field
	member *constmodel.Member
}

// Member returns the wrapped member, nil for SQL NULL.
func (v *Value) Member() *constmodel.Member { return v.member }

// Value implements driver.Valuer: the member's value field as the column
// scalar.
func (v *Value) Value() (driver.Value, error) {
	if v.member == nil {
		return nil, nil
	}
	scalar, ok := v.member.Value(v.field.valueField)
	if !ok {
		return nil, fmt.Errorf("%w: member %s has no field %q", ErrBadBinding, v.member, v.field.valueField)
	}
	switch s := scalar.(type) {
	case string:
		return s, nil
	case int:
		return int64(s), nil
	case int64:
		return s, nil
	default:
		return nil, fmt.Errorf("%w: field %q of member %s is not a column scalar",
			ErrBadBinding, v.field.valueField, v.member)
	}
}

// Scan implements sql.Scanner: resolves the stored scalar back to a member.
// NULL scans to a nil member; a scalar matching no member is an
// ErrUnknownScalar, not a crash.
func (v *Value) Scan(src any) error {
	if src == nil {
		v.member = nil
		return nil
	}

	var scalar any
	switch s := src.(type) {
	case string:
		scalar = s
	case []byte:
		scalar = string(s)
	case int64:
		if v.field.kind == kindInt && !v.field.int64Valued {
			scalar = int(s)
		} else {
			scalar = s
		}
	default:
		return fmt.Errorf("%w: cannot scan %T into %s", ErrUnknownScalar, src, v.field.model.Name())
	}

	mem, err := v.field.model.GetOrNil(constmodel.C{v.field.valueField: scalar})
	if err != nil {
		return fmt.Errorf("sqlfield: resolve %v: %w", scalar, err)
	}
	if mem == nil {
		return fmt.Errorf("%w: %v is not a %s value", ErrUnknownScalar, scalar, v.field.model.Name())
	}
	v.member = mem
	return nil
}
