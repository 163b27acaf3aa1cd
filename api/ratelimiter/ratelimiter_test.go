package ratelimiter

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetLimiter(t *testing.T) {
	l1 := GetLimiter("rpc:10.0.0.1", 1, 2)
	l2 := GetLimiter("rpc:10.0.0.1", 1, 2)
	require.True(t, l1 == l2)

	l3 := GetLimiter("rpc:10.0.0.2", 1, 2)
	require.False(t, l1 == l3)
}

func TestAllow(t *testing.T) {
	key := "rpc:10.0.0.3"
	require.True(t, Allow(key, 0.001, 2))
	require.True(t, Allow(key, 0.001, 2))
	require.False(t, Allow(key, 0.001, 2))

	for i := 0; i < 10; i++ {
		require.True(t, Allow("rpc:unlimited", 0, 0))
	}
}
