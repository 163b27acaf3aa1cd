package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewDetailErr(t *testing.T) {
	root := errors.New("connection refused")
	err := NewDetailErr(root, ErrFetch, "fetch http://peer:5000")

	require.Equal(t, "fetch http://peer:5000: connection refused", err.Error())
	require.Equal(t, ErrFetch, err.GetErrCode())
	require.Equal(t, root, RootErr(err))
	require.True(t, errors.Is(err, root))
	require.True(t, errors.Is(err, ErrFetch))
	require.False(t, errors.Is(err, ErrFormat))
	require.NotEmpty(t, CallStacksString(GetCallStacks(err)))

	require.Nil(t, NewDetailErr(nil, ErrFetch, "ignored"))
}

func TestNewDetailErrRewrap(t *testing.T) {
	root := errors.New("unsupported scheme")
	inner := NewDetailErr(root, ErrInvalidParams, "normalize")
	outer := NewDetailErr(inner, ErrFetch, "fetch ftp://peer")

	require.Equal(t, ErrFetch, outer.GetErrCode())
	require.True(t, Is(outer, ErrFetch))
	require.False(t, Is(outer, ErrInvalidParams))
	require.Equal(t, root, RootErr(outer))
	require.Equal(t, "fetch ftp://peer: normalize: unsupported scheme", outer.Error())
	require.Equal(t, inner.GetCallStack(), outer.GetCallStack())
}

func TestGetErrCode(t *testing.T) {
	require.Equal(t, ErrNoError, GetErrCode(nil))
	require.Equal(t, ErrUnknown, GetErrCode(errors.New("plain")))

	wrapped := fmt.Errorf("resolve: %w", NewDetailErrf(ErrFormat, "bad length %d", 3))
	require.Equal(t, ErrFormat, GetErrCode(wrapped))
	require.True(t, Is(wrapped, ErrFormat))
	require.False(t, Is(nil, ErrFormat))

	require.Equal(t, "Peer chain could not be parsed", ErrFormat.Error())
}
