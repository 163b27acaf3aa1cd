package block

import (
	"bytes"
	"encoding/json"

	"github.com/emirpasic/gods/sets/treeset"
	"github.com/nknorg/powledger/errors"
)

// Chain is an ordered, duplicate free sequence of blocks.
type Chain struct {
	set *treeset.Set
}

func NewChain(blocks ...*Block) *Chain {
	c := &Chain{set: treeset.NewWith(Comparator)}
	for _, b := range blocks {
		c.Add(b)
	}
	return c
}

// Add inserts b and reports whether it was not already present.
func (c *Chain) Add(b *Block) bool {
	if b == nil || c.set.Contains(b) {
		return false
	}
	c.set.Add(b)
	return true
}

func (c *Chain) Len() int {
	if c == nil {
		return 0
	}
	return c.set.Size()
}

// Blocks returns the blocks in ascending order.
func (c *Chain) Blocks() []*Block {
	if c == nil {
		return nil
	}
	values := c.set.Values()
	blocks := make([]*Block, len(values))
	for i, v := range values {
		blocks[i] = v.(*Block)
	}
	return blocks
}

// Last returns the highest block, or nil for an empty chain.
func (c *Chain) Last() *Block {
	if c.Len() == 0 {
		return nil
	}
	it := c.set.Iterator()
	if !it.Last() {
		return nil
	}
	return it.Value().(*Block)
}

// Copy returns a chain sharing the (immutable) blocks but not the container.
func (c *Chain) Copy() *Chain {
	return NewChain(c.Blocks()...)
}

func (c *Chain) MarshalJSON() ([]byte, error) {
	blocks := c.Blocks()
	if blocks == nil {
		blocks = []*Block{}
	}
	return json.Marshal(blocks)
}

func (c *Chain) UnmarshalJSON(data []byte) error {
	var blocks []*Block
	if err := json.Unmarshal(data, &blocks); err != nil {
		return err
	}
	c.set = treeset.NewWith(Comparator)
	for _, b := range blocks {
		if b != nil {
			c.Add(b.normalized())
		}
	}
	return nil
}

// ChainInfo is the wire envelope a node serves its chain in.
type ChainInfo struct {
	Chain  []*Block `json:"chain"`
	Length int      `json:"length"`
}

// EncodeChain encodes c in the envelope peers fetch.
func EncodeChain(c *Chain) ([]byte, error) {
	blocks := c.Blocks()
	if blocks == nil {
		blocks = []*Block{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(&ChainInfo{Chain: blocks, Length: len(blocks)}); err != nil {
		return nil, errors.NewDetailErr(err, errors.ErrFormat, "encode chain")
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// DecodeChain parses a peer's chain envelope. Blocks must be listed in order
// with index equal to their 1-based position. Any malformed input yields an
// error of kind ErrFormat.
func DecodeChain(data []byte) (*Chain, error) {
	info := &ChainInfo{}
	if err := json.Unmarshal(data, info); err != nil {
		return nil, errors.NewDetailErr(err, errors.ErrFormat, "decode chain")
	}

	if len(info.Chain) == 0 {
		return nil, errors.NewDetailErrf(errors.ErrFormat, "empty chain")
	}

	if info.Length != len(info.Chain) {
		return nil, errors.NewDetailErrf(errors.ErrFormat, "chain length %d does not match %d blocks", info.Length, len(info.Chain))
	}

	c := NewChain()
	for i, b := range info.Chain {
		if b == nil {
			return nil, errors.NewDetailErrf(errors.ErrFormat, "null block at position %d", i+1)
		}
		if b.Index != uint64(i+1) {
			return nil, errors.NewDetailErrf(errors.ErrFormat, "block at position %d has index %d", i+1, b.Index)
		}
		c.Add(b.normalized())
	}

	return c, nil
}
