package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGoCache(t *testing.T) {
	c := NewGoCache(time.Minute, time.Minute)

	_, ok := c.Get("a")
	require.False(t, ok)

	c.Set("a", 1)
	v, ok := c.Get("a")
	require.True(t, ok)
	require.Equal(t, 1, v)

	created := 0
	create := func() interface{} {
		created++
		return created
	}
	require.Equal(t, 1, c.GetOrCreate("b", create))
	require.Equal(t, 1, c.GetOrCreate("b", create))
	require.Equal(t, 1, created)
	require.Equal(t, 2, c.ItemCount())

	c.Delete("a")
	_, ok = c.Get("a")
	require.False(t, ok)
}

func TestGoCacheExpiration(t *testing.T) {
	c := NewGoCache(10*time.Millisecond, time.Hour)
	c.Set("k", "v")
	time.Sleep(30 * time.Millisecond)
	_, ok := c.Get("k")
	require.False(t, ok)
}
