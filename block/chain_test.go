package block

import (
	"testing"

	"github.com/nknorg/powledger/errors"
	"github.com/stretchr/testify/require"
)

func TestChainOrderAndDedup(t *testing.T) {
	b1 := &Block{Index: 1, PreviousHash: "g"}
	b2 := &Block{Index: 2, PreviousHash: "x"}
	b3 := &Block{Index: 3, PreviousHash: "y"}

	c := NewChain(b3, b1, b2)
	require.Equal(t, 3, c.Len())
	require.False(t, c.Add(&Block{Index: 2, PreviousHash: "x"}))
	require.False(t, c.Add(nil))
	require.Equal(t, 3, c.Len())

	blocks := c.Blocks()
	require.Equal(t, uint64(1), blocks[0].Index)
	require.Equal(t, uint64(3), blocks[2].Index)
	require.Equal(t, b3, c.Last())

	cp := c.Copy()
	cp.Add(&Block{Index: 4})
	require.Equal(t, 3, c.Len())
	require.Equal(t, 4, cp.Len())

	var empty *Chain
	require.Equal(t, 0, empty.Len())
	require.Nil(t, NewChain().Last())
}

func TestEncodeDecodeChain(t *testing.T) {
	genesis := NewGenesisBlock(1514764800)
	c := NewChain(genesis, &Block{Index: 2, Timestamp: 1514764900, Proof: 7, PreviousHash: "abc"})

	data, err := EncodeChain(c)
	require.NoError(t, err)

	decoded, err := DecodeChain(data)
	require.NoError(t, err)
	require.Equal(t, 2, decoded.Len())

	h1, _ := genesis.Hash()
	h2, _ := decoded.Blocks()[0].Hash()
	require.Equal(t, h1, h2)
}

func TestDecodeChainMalformed(t *testing.T) {
	tests := map[string]string{
		"not json":        `<html>502 Bad Gateway</html>`,
		"empty":           `{"chain":[],"length":0}`,
		"missing chain":   `{"length":1}`,
		"length mismatch": `{"chain":[{"index":1,"timestamp":0,"proof":100,"previous_hash":"g","transactions":[]}],"length":2}`,
		"null block":      `{"chain":[null],"length":1}`,
		"negative proof":  `{"chain":[{"index":1,"timestamp":0,"proof":-1,"previous_hash":"g","transactions":[]}],"length":1}`,
		"duplicate index": `{"chain":[{"index":1,"proof":1},{"index":1,"proof":2}],"length":2}`,
		"trailing data":   `{"chain":[{"index":1}],"length":1} garbage`,
		"index gap":       `{"chain":[{"index":1,"proof":100},{"index":5,"proof":2}],"length":2}`,
		"out of order":    `{"chain":[{"index":2,"proof":1},{"index":1,"proof":100}],"length":2}`,
		"starts at zero":  `{"chain":[{"index":0,"proof":100}],"length":1}`,
	}

	for name, body := range tests {
		_, err := DecodeChain([]byte(body))
		require.Error(t, err, name)
		require.True(t, errors.Is(err, errors.ErrFormat), name)
	}
}

func TestChainJSON(t *testing.T) {
	c := NewChain(&Block{Index: 2}, &Block{Index: 1})
	data, err := c.MarshalJSON()
	require.NoError(t, err)

	decoded := &Chain{}
	require.NoError(t, decoded.UnmarshalJSON(data))
	require.Equal(t, 2, decoded.Len())
	require.Equal(t, uint64(1), decoded.Blocks()[0].Index)

	data, err = NewChain().MarshalJSON()
	require.NoError(t, err)
	require.Equal(t, "[]", string(data))
}
