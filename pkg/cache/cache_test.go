package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRoundTrip(t *testing.T) {
	Use(NewMemoryStore())

	require.NoError(t, Set("cart", map[string]int{"3": 2}, time.Minute))

	var got map[string]int
	require.True(t, Get("cart", &got))
	assert.Equal(t, map[string]int{"3": 2}, got)

	require.NoError(t, Forget("cart"))
	assert.False(t, Get("cart", &got))
}

func TestMemoryExpiry(t *testing.T) {
	s := NewMemoryStore()
	now := time.Now()
	s.now = func() time.Time { return now }

	require.NoError(t, s.Set(context.Background(), "k", []byte(`1`), time.Second))
	_, err := s.Get(context.Background(), "k")
	require.NoError(t, err)

	now = now.Add(2 * time.Second)
	_, err = s.Get(context.Background(), "k")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestDelNoKeys(t *testing.T) {
	assert.NoError(t, Del())
}
