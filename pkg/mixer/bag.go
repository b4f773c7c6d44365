package mixer

// Bag is a small unordered-membership container used for the many-to-many
// attachment relation between simple elements and raw elements. Iteration
// order is insertion order, which keeps event fan-out deterministic.
//
// The zero value is not useful; bags are created by NewBag and released by
// dropping the last reference. Element counts are bounded by hardware
// control counts, so membership checks scan linearly.
type Bag[T comparable] struct {
	items []T
}

// NewBag creates an empty bag.
func NewBag[T comparable]() *Bag[T] {
	return &Bag[T]{}
}

// Add appends v to the bag. Adding a member twice is a no-op.
func (b *Bag[T]) Add(v T) {
	if b.Contains(v) {
		return
	}
	b.items = append(b.items, v)
}

// Del removes v from the bag. Removing an absent member is a no-op, so
// Del stays safe during partial teardown.
func (b *Bag[T]) Del(v T) {
	for i, item := range b.items {
		if item == v {
			b.items = append(b.items[:i], b.items[i+1:]...)
			return
		}
	}
}

// Contains reports whether v is a member.
func (b *Bag[T]) Contains(v T) bool {
	for _, item := range b.items {
		if item == v {
			return true
		}
	}
	return false
}

// Empty reports whether the bag has no members.
func (b *Bag[T]) Empty() bool {
	return len(b.items) == 0
}

// Len returns the number of members.
func (b *Bag[T]) Len() int {
	return len(b.items)
}

// Items returns a snapshot of the members, safe to iterate while the bag
// is mutated.
func (b *Bag[T]) Items() []T {
	out := make([]T, len(b.items))
	copy(out, b.items)
	return out
}

// Clear removes all members.
func (b *Bag[T]) Clear() {
	b.items = nil
}
