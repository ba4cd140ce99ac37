package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsUnknownBackend(t *testing.T) {
	_, err := New("not-a-backend")
	require.Error(t, err)
}

func TestRegisterThenNewResolvesFactory(t *testing.T) {
	called := false
	Register("test-backend", func() (Engine, error) {
		called = true
		return nil, nil
	})

	_, err := New("test-backend")
	require.NoError(t, err)
	assert.True(t, called)
}
