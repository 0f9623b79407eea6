// Package iterator provides a bidirectional cursor over a ranked sequence
// that supports removing the element under the cursor.
package iterator

// unpositioned is the cursor index before the first Next or Prev.
const unpositioned = -1

// Result is the outcome of a cursor operation.
//
// OK is false for the empty result, in which case Value is the zero value,
// Done is true and Index is -1.
type Result[T any] struct {
	Value T
	OK    bool
	Done  bool
	Index int
}

// Iterator walks a sequence in both directions. Movement saturates at both
// ends. It is not safe for concurrent use.
type Iterator[T any] struct {
	items []T
	pos   int
}

// New creates an unpositioned iterator over a private copy of items.
func New[T any](items []T) *Iterator[T] {
	cp := make([]T, len(items))
	copy(cp, items)
	return &Iterator[T]{items: cp, pos: unpositioned}
}

// Len returns the number of elements left in the sequence.
func (it *Iterator[T]) Len() int {
	return len(it.items)
}

// Next moves the cursor forward, or onto the first element when unpositioned.
func (it *Iterator[T]) Next() Result[T] {
	if len(it.items) == 0 {
		return it.empty()
	}
	if it.pos == unpositioned {
		it.pos = 0
	} else {
		it.pos = min(it.pos+1, len(it.items)-1)
	}
	return it.at(it.pos)
}

// Prev moves the cursor backward, or onto the first element when unpositioned.
func (it *Iterator[T]) Prev() Result[T] {
	if len(it.items) == 0 {
		return it.empty()
	}
	if it.pos == unpositioned {
		it.pos = 0
	} else {
		it.pos = max(it.pos-1, 0)
	}
	return it.at(it.pos)
}

// Current returns the element under the cursor without moving it.
func (it *Iterator[T]) Current() Result[T] {
	if it.pos == unpositioned || len(it.items) == 0 {
		return it.empty()
	}
	return it.at(it.pos)
}

// Remove deletes the element under the cursor. The cursor keeps its index,
// saturating to the new last element, and the element now under it is
// returned. Removing the last remaining element, or removing before the
// cursor was positioned, yields the empty result.
func (it *Iterator[T]) Remove() Result[T] {
	if it.pos == unpositioned || len(it.items) == 0 {
		return it.empty()
	}

	var zero T
	copy(it.items[it.pos:], it.items[it.pos+1:])
	it.items[len(it.items)-1] = zero
	it.items = it.items[:len(it.items)-1]

	if len(it.items) == 0 {
		it.pos = unpositioned
		return it.empty()
	}
	it.pos = min(it.pos, len(it.items)-1)
	return it.at(it.pos)
}

func (it *Iterator[T]) at(i int) Result[T] {
	return Result[T]{
		Value: it.items[i],
		OK:    true,
		Done:  i == len(it.items)-1,
		Index: i,
	}
}

func (it *Iterator[T]) empty() Result[T] {
	return Empty[T]()
}

// Empty returns the empty result.
func Empty[T any]() Result[T] {
	return Result[T]{Done: true, Index: unpositioned}
}
