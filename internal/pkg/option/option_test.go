package option_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/marcos-nsantos/notes-backend/internal/pkg/option"
)

func TestOption(t *testing.T) {
	errMissing := errors.New("missing")

	t.Run("some holds value", func(t *testing.T) {
		o := option.Some(42)

		v, ok := o.Get()
		assert.True(t, ok)
		assert.Equal(t, 42, v)
		assert.True(t, o.IsPresent())
		assert.Equal(t, 42, o.OrElse(7))

		got, err := o.OrError(errMissing)
		assert.NoError(t, err)
		assert.Equal(t, 42, got)
	})

	t.Run("none is absent", func(t *testing.T) {
		o := option.None[int]()

		v, ok := o.Get()
		assert.False(t, ok)
		assert.Zero(t, v)
		assert.False(t, o.IsPresent())
		assert.Equal(t, 7, o.OrElse(7))

		_, err := o.OrError(errMissing)
		assert.ErrorIs(t, err, errMissing)
	})

	t.Run("some of nil pointer is still present", func(t *testing.T) {
		o := option.Some[*int](nil)

		assert.True(t, o.IsPresent())
	})
}
