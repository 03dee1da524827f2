// Package index provides the per-field secondary index used by constmodel
// collections: one bucket map per indexed field, keyed by a normalized
// rendering of the field value, each bucket holding members in insertion
// order.
package index

// Buckets is a per-field value index. T is the indexed item (a pointer type in
// practice). Buckets is not safe for concurrent mutation; the owning
// collection serializes writes.
type Buckets[T comparable] struct {
	fields map[string]map[string][]T
}

// New creates empty buckets for the given field names. Fields are created
// eagerly so Has reports indexability even before any item is inserted.
func New[T comparable](fields ...string) *Buckets[T] {
	b := &Buckets[T]{fields: make(map[string]map[string][]T, len(fields))}
	for _, f := range fields {
		b.fields[f] = make(map[string][]T)
	}
	return b
}

// Has reports whether the field is indexed.
func (b *Buckets[T]) Has(field string) bool {
	_, ok := b.fields[field]
	return ok
}

// Insert appends item to the bucket for (field, key). Inserting into an
// unindexed field is a no-op.
func (b *Buckets[T]) Insert(field, key string, item T) {
	bucket, ok := b.fields[field]
	if !ok {
		return
	}
	bucket[key] = append(bucket[key], item)
}

// Probe returns the bucket for (field, key) in insertion order. The returned
// slice is shared; callers must not mutate it.
func (b *Buckets[T]) Probe(field, key string) []T {
	bucket, ok := b.fields[field]
	if !ok {
		return nil
	}
	return bucket[key]
}

// Len returns the number of distinct keys indexed under field.
func (b *Buckets[T]) Len(field string) int {
	return len(b.fields[field])
}
