package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/nknorg/powledger/errors"
	"github.com/stretchr/testify/require"
)

func TestFetchChain(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chain", r.URL.Path)
		w.Write([]byte(`{"chain":[],"length":0}`))
	}))
	defer server.Close()

	data, err := NewClient(time.Second, 1024).FetchChain(context.Background(), server.URL)
	require.NoError(t, err)
	require.Equal(t, `{"chain":[],"length":0}`, string(data))
}

func TestFetchChainErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := NewClient(time.Second, 1024).FetchChain(context.Background(), server.URL)
	require.True(t, errors.Is(err, errors.ErrFetch))

	// connection refused
	closed := httptest.NewServer(http.NotFoundHandler())
	closed.Close()
	_, err = NewClient(time.Second, 1024).FetchChain(context.Background(), closed.URL)
	require.True(t, errors.Is(err, errors.ErrFetch))

	_, err = NewClient(time.Second, 1024).FetchChain(context.Background(), "ftp://peer")
	require.True(t, errors.Is(err, errors.ErrFetch))
}

func TestFetchChainTimeout(t *testing.T) {
	done := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-done:
		case <-time.After(time.Second):
		}
	}))
	defer server.Close()
	defer close(done)

	_, err := NewClient(50*time.Millisecond, 1024).FetchChain(context.Background(), server.URL)
	require.True(t, errors.Is(err, errors.ErrFetch))
}

func TestFetchChainTooLarge(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(strings.Repeat("x", 2048)))
	}))
	defer server.Close()

	_, err := NewClient(time.Second, 1024).FetchChain(context.Background(), server.URL)
	require.True(t, errors.Is(err, errors.ErrFetch))

	data, err := NewClient(time.Second, 2048).FetchChain(context.Background(), server.URL)
	require.NoError(t, err)
	require.Len(t, data, 2048)
}

func TestPost(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/transactions/new", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"message":"Transaction will be added to Block 2"}`))
	}))
	defer server.Close()

	data, err := NewClient(time.Second, 1024).NewTransaction(context.Background(), server.URL, "a", "b", 1)
	require.NoError(t, err)
	require.Contains(t, string(data), "Block 2")
}
