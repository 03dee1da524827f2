package index

import "fmt"

// Key derives the index key for an arbitrary field value.
//
// The policy is a canonical string rendering prefixed by the dynamic type:
// values of different types never collide, values of the same type collide
// exactly when their %#v renderings are equal (so two distinct slices with
// equal contents share a bucket). Callers are expected to run an exact-match
// verification pass over probed candidates, which resolves such collisions.
//
// Values implementing fmt.Stringer are rendered via String() instead of %#v.
// Self-referential structures (a member rendered through the model that holds
// it) would otherwise recurse forever under %#v.
func Key(v any) string {
	if s, ok := v.(fmt.Stringer); ok {
		return fmt.Sprintf("%T\x1f%s", v, s.String())
	}
	return fmt.Sprintf("%T\x1f%#v", v, v)
}
