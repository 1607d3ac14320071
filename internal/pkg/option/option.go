// Package option holds a value that may be absent. Lookups return it instead
// of a nil pointer so callers have to handle both branches.
package option

type Option[T any] struct {
	value T
	ok    bool
}

func Some[T any](v T) Option[T] {
	return Option[T]{value: v, ok: true}
}

func None[T any]() Option[T] {
	return Option[T]{}
}

// Get returns the value and whether it is present.
func (o Option[T]) Get() (T, bool) {
	return o.value, o.ok
}

func (o Option[T]) IsPresent() bool {
	return o.ok
}

// OrElse returns the value, or fallback when absent.
func (o Option[T]) OrElse(fallback T) T {
	if o.ok {
		return o.value
	}
	return fallback
}

// OrError returns the value, or err when absent.
func (o Option[T]) OrError(err error) (T, error) {
	if o.ok {
		return o.value, nil
	}
	var zero T
	return zero, err
}
