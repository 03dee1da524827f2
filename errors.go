package constmodel

import (
	"errors"
	"fmt"
)

// Sentinel errors. Construction errors indicate a broken static definition and
// are fatal at load time; query errors are ordinary recoverable conditions.
var (
	// ErrConstruction signals an invalid model definition.
	ErrConstruction = errors.New("invalid model definition")
	// ErrDuplicateMember signals a member name declared twice in one model,
	// or a name collision introduced by propagation.
	ErrDuplicateMember = fmt.Errorf("%w: duplicate member name", ErrConstruction)
	// ErrFieldCount signals a member declaration whose value count does not
	// match the model's field count.
	ErrFieldCount = fmt.Errorf("%w: field/value count mismatch", ErrConstruction)
	// ErrMemberRenamed signals an attempt to assign a second name to an
	// already-named member.
	ErrMemberRenamed = fmt.Errorf("%w: member already named", ErrConstruction)

	// ErrDoesNotExist signals a Get that matched no members.
	ErrDoesNotExist = errors.New("member does not exist")
	// ErrMultipleReturned signals a Get that matched more than one member.
	ErrMultipleReturned = errors.New("multiple members returned")
	// ErrInvalidField signals a query or projection referencing an unknown field.
	ErrInvalidField = errors.New("invalid field")
)

// DoesNotExistError reports a Get that matched nothing, with the model name
// and criteria for diagnostics.
type DoesNotExistError struct {
	Model    string
	Criteria C
}

func (e *DoesNotExistError) Error() string {
	return fmt.Sprintf("%s.Get(%s) matched no members", e.Model, e.Criteria)
}

func (e *DoesNotExistError) Unwrap() error { return ErrDoesNotExist }

// MultipleReturnedError reports a Get that matched more than one member.
type MultipleReturnedError struct {
	Model    string
	Criteria C
	Count    int
}

func (e *MultipleReturnedError) Error() string {
	return fmt.Sprintf("%s.Get(%s) matched %d members", e.Model, e.Criteria, e.Count)
}

func (e *MultipleReturnedError) Unwrap() error { return ErrMultipleReturned }

// InvalidFieldError reports a field name unknown to the model.
type InvalidFieldError struct {
	Model string
	Field string
}

func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("%s: invalid field %q", e.Model, e.Field)
}

func (e *InvalidFieldError) Unwrap() error { return ErrInvalidField }
