package httpjson

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/nknorg/powledger/api/httpjson/client"
	"github.com/nknorg/powledger/block"
	"github.com/nknorg/powledger/chain"
	"github.com/nknorg/powledger/config"
	"github.com/nknorg/powledger/consensus"
	"github.com/stretchr/testify/require"
)

type resolverFunc func(ctx context.Context) bool

func (f resolverFunc) Resolve(ctx context.Context) bool {
	return f(ctx)
}

func newTestServer(t *testing.T, resolver Resolver) (*RPCServer, *chain.Ledger) {
	ledger, err := chain.NewLedger(1, chain.WithNodeID("node-1"))
	require.NoError(t, err)
	if resolver == nil {
		resolver = resolverFunc(func(ctx context.Context) bool { return false })
	}
	return NewServer(ledger, resolver), ledger
}

func do(t *testing.T, s *RPCServer, method, path, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	resp := make(map[string]interface{})
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	}
	return w, resp
}

func TestNewTransactionAndMine(t *testing.T) {
	s, ledger := newTestServer(t, nil)

	w, resp := do(t, s, http.MethodPost, "/transactions/new", `{"sender":"a","recipient":"b","amount":100}`)
	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, "Transaction will be added to Block 2", resp["message"])

	w, resp = do(t, s, http.MethodGet, "/mine", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "New Block Forged", resp["message"])
	require.Equal(t, float64(2), resp["index"])
	require.Len(t, resp["transactions"], 2)
	require.Equal(t, 2, ledger.Len())
	require.Empty(t, ledger.PendingTransactions())
}

func TestNewTransactionMissingValues(t *testing.T) {
	s, ledger := newTestServer(t, nil)

	for _, body := range []string{
		`{"sender":"a","recipient":"b"}`,
		`{"recipient":"b","amount":1}`,
		`{"sender":"a","amount":1}`,
		`{"sender":"","recipient":"b","amount":1}`,
		`{"sender":"a","recipient":"b","amount":-1}`,
		`not json`,
	} {
		w, _ := do(t, s, http.MethodPost, "/transactions/new", body)
		require.Equal(t, http.StatusBadRequest, w.Code, body)
	}
	require.Empty(t, ledger.PendingTransactions())
}

func TestFullChain(t *testing.T) {
	s, ledger := newTestServer(t, nil)
	_, err := ledger.Mine(context.Background())
	require.NoError(t, err)

	w, _ := do(t, s, http.MethodGet, "/chain", "")
	require.Equal(t, http.StatusOK, w.Code)

	c, err := block.DecodeChain(w.Body.Bytes())
	require.NoError(t, err)
	require.Equal(t, 2, c.Len())
	require.True(t, ledger.ValidChain(c))

	expected, err := block.EncodeChain(ledger.Chain())
	require.NoError(t, err)
	require.Equal(t, string(expected), w.Body.String())
}

func TestRegisterNodes(t *testing.T) {
	s, ledger := newTestServer(t, nil)

	w, resp := do(t, s, http.MethodPost, "/nodes/register", `{"nodes":["http://10.0.0.1:5000","10.0.0.2:5000","http://10.0.0.1:5000"]}`)
	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, "New nodes have been added", resp["message"])
	require.Equal(t, []interface{}{"http://10.0.0.1:5000", "http://10.0.0.2:5000"}, resp["total_nodes"])

	w, _ = do(t, s, http.MethodPost, "/nodes/register", `{}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = do(t, s, http.MethodPost, "/nodes/register", `{"nodes":["http://10.0.0.3:5000","ftp://bad"]}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, []string{"http://10.0.0.1:5000", "http://10.0.0.2:5000"}, ledger.Peers())

	w, resp = do(t, s, http.MethodGet, "/nodes", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, []interface{}{"http://10.0.0.1:5000", "http://10.0.0.2:5000"}, resp["nodes"])
}

func TestResolve(t *testing.T) {
	s, _ := newTestServer(t, resolverFunc(func(ctx context.Context) bool { return true }))
	w, resp := do(t, s, http.MethodGet, "/nodes/resolve", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "Our chain was replaced", resp["message"])
	require.Len(t, resp["new_chain"], 1)

	s, _ = newTestServer(t, nil)
	w, resp = do(t, s, http.MethodGet, "/nodes/resolve", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "Our chain is authoritative", resp["message"])
	require.Len(t, resp["chain"], 1)
}

// Two nodes served over http resolve to the longer chain.
func TestResolveBetweenNodes(t *testing.T) {
	remote, remoteLedger := newTestServer(t, nil)
	for i := 0; i < 2; i++ {
		_, err := remoteLedger.Mine(context.Background())
		require.NoError(t, err)
	}
	remoteServer := httptest.NewServer(remote.Handler())
	defer remoteServer.Close()

	localLedger, err := chain.NewLedger(1)
	require.NoError(t, err)
	fetcher := client.NewClient(time.Second, 1<<20)
	resolver := consensus.NewConsensus(localLedger, consensus.NewResolver(fetcher, true), 0, 0)
	local := NewServer(localLedger, resolver)

	w, _ := do(t, local, http.MethodPost, "/nodes/register", `{"nodes":["`+remoteServer.URL+`"]}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w, resp := do(t, local, http.MethodGet, "/nodes/resolve", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "Our chain was replaced", resp["message"])
	require.Equal(t, 3, localLedger.Len())
}

func TestRateLimit(t *testing.T) {
	limit, burst := config.Parameters.RPCIPRateLimit, config.Parameters.RPCIPRateBurst
	config.Parameters.RPCIPRateLimit, config.Parameters.RPCIPRateBurst = 0.001, 2
	defer func() {
		config.Parameters.RPCIPRateLimit, config.Parameters.RPCIPRateBurst = limit, burst
	}()
	s, _ := newTestServer(t, nil)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/nodes", nil)
		req.RemoteAddr = "198.51.100.7:1234"
		w := httptest.NewRecorder()
		s.Handler().ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	require.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestNotFound(t *testing.T) {
	s, _ := newTestServer(t, nil)
	w, _ := do(t, s, http.MethodGet, "/nowhere", "")
	require.Equal(t, http.StatusNotFound, w.Code)
}
