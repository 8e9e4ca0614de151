package cancel

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextSupersedes(t *testing.T) {
	var s Source
	first := s.Next(context.Background())
	assert.True(t, first.Current())

	second := s.Next(context.Background())
	assert.False(t, first.Current())
	assert.True(t, second.Current())
	assert.ErrorIs(t, first.Context().Err(), context.Canceled)
	assert.NoError(t, second.Context().Err())
}

func TestStop(t *testing.T) {
	var s Source
	tok := s.Next(context.Background())
	s.Stop()
	assert.False(t, tok.Current())
	assert.True(t, IsAbort(tok.Context().Err()))
}

func TestZeroToken(t *testing.T) {
	var tok Token
	assert.False(t, tok.Current())
}
