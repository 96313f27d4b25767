// Package choice models the outcome of an interactive selection step such as
// a file or color picker.
package choice

// Choice is either a chosen value or a cancellation. The zero value is
// cancelled.
type Choice[T any] struct {
	value  T
	chosen bool
}

// Chosen returns a Choice carrying v.
func Chosen[T any](v T) Choice[T] {
	return Choice[T]{value: v, chosen: true}
}

// Cancelled returns a Choice that carries no value.
func Cancelled[T any]() Choice[T] {
	return Choice[T]{}
}

// Get returns the chosen value and true, or the zero value and false when the
// selection was cancelled.
func (c Choice[T]) Get() (T, bool) {
	return c.value, c.chosen
}

// IsCancelled reports whether the user backed out of the selection.
func (c Choice[T]) IsCancelled() bool {
	return !c.chosen
}
