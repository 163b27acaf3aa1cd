package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/nknorg/powledger/config"
	"github.com/nknorg/powledger/errors"
)

// Client talks to a node's http json api. Its FetchChain makes it usable
// as a consensus chain fetcher.
type Client struct {
	httpClient      *http.Client
	maxResponseSize int64
}

// NewClient returns a client whose requests give up after timeout and whose
// responses may not exceed maxResponseSize bytes.
func NewClient(timeout time.Duration, maxResponseSize int64) *Client {
	return &Client{
		httpClient:      &http.Client{Timeout: timeout},
		maxResponseSize: maxResponseSize,
	}
}

// NewClientFromConfig builds a client from config.Parameters.
func NewClientFromConfig() *Client {
	return NewClient(config.Parameters.GetFetchTimeout(), config.Parameters.GetMaxChainResponseBytes())
}

// FetchChain returns the raw chain envelope served by the node at address.
// Every failure has kind ErrFetch.
func (c *Client) FetchChain(ctx context.Context, address string) ([]byte, error) {
	return c.Get(ctx, address, config.DefaultChainEndpoint)
}

func (c *Client) Get(ctx context.Context, address, path string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, address, path, nil)
}

func (c *Client) Post(ctx context.Context, address, path string, body interface{}) ([]byte, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, errors.NewDetailErr(err, errors.ErrInvalidParams, "marshal request")
	}
	return c.do(ctx, http.MethodPost, address, path, data)
}

func (c *Client) do(ctx context.Context, method, address, path string, body []byte) ([]byte, error) {
	addr, err := config.NormalizeAddress(address)
	if err != nil {
		return nil, errors.NewDetailErr(err, errors.ErrFetch, "invalid address "+address)
	}
	url := addr + path

	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
	if err != nil {
		return nil, errors.NewDetailErr(err, errors.ErrFetch, "")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.NewDetailErr(err, errors.ErrFetch, method+" "+url)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxResponseSize+1))
	if err != nil {
		return nil, errors.NewDetailErr(err, errors.ErrFetch, "read response from "+url)
	}
	if int64(len(data)) > c.maxResponseSize {
		return nil, errors.NewDetailErrf(errors.ErrFetch, "response from %s exceeds %d bytes", url, c.maxResponseSize)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return data, errors.NewDetailErrf(errors.ErrFetch, "%s %s returned %s: %s", method, url, resp.Status, strings.TrimSpace(string(data)))
	}

	return data, nil
}

// Mine asks the node at address to mine a block.
func (c *Client) Mine(ctx context.Context, address string) ([]byte, error) {
	return c.Get(ctx, address, "/mine")
}

func (c *Client) NewTransaction(ctx context.Context, address, sender, recipient string, amount uint64) ([]byte, error) {
	return c.Post(ctx, address, "/transactions/new", map[string]interface{}{
		"sender":    sender,
		"recipient": recipient,
		"amount":    amount,
	})
}

func (c *Client) RegisterNodes(ctx context.Context, address string, nodes []string) ([]byte, error) {
	return c.Post(ctx, address, "/nodes/register", map[string]interface{}{
		"nodes": nodes,
	})
}

func (c *Client) GetNodes(ctx context.Context, address string) ([]byte, error) {
	return c.Get(ctx, address, "/nodes")
}

func (c *Client) Resolve(ctx context.Context, address string) ([]byte, error) {
	return c.Get(ctx, address, "/nodes/resolve")
}

// String is used in log lines.
func (c *Client) String() string {
	return fmt.Sprintf("http client (timeout %v, max response %d bytes)", c.httpClient.Timeout, c.maxResponseSize)
}
