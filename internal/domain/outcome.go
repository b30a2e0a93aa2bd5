package domain

// Outcome carries a computed value together with whether a fallback
// was substituted for some upstream input.
type Outcome[T any] struct {
	Value    T
	Degraded bool
	Reason   error
}

// Ok wraps a value computed from complete inputs.
func Ok[T any](v T) Outcome[T] {
	return Outcome[T]{Value: v}
}

// Degraded wraps a fallback value and the error that forced it.
func Degraded[T any](fallback T, reason error) Outcome[T] {
	return Outcome[T]{Value: fallback, Degraded: true, Reason: reason}
}
