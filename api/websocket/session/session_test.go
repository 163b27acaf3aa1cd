package session

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSessionList(t *testing.T) {
	sl := NewSessionList()

	s1, err := sl.NewSession(nil)
	require.NoError(t, err)
	s2, err := sl.NewSession(nil)
	require.NoError(t, err)
	require.NotEqual(t, s1.GetSessionId(), s2.GetSessionId())
	require.Equal(t, 2, sl.GetSessionCount())

	visited := 0
	sl.ForEachSession(func(*Session) { visited++ })
	require.Equal(t, 2, visited)

	require.NoError(t, sl.CloseSession(s1))
	require.Error(t, sl.CloseSession(s1))
	require.Error(t, sl.CloseSession(nil))
	require.Equal(t, 1, sl.GetSessionCount())

	// a closed connection cannot be written to
	require.Error(t, s1.SendText([]byte("x")))
}
