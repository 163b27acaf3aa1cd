package block

import (
	"time"

	"github.com/nknorg/powledger/config"
)

// NewGenesisBlock returns the first block of every ledger. Nodes sharing the
// same timestamp produce identical genesis blocks.
func NewGenesisBlock(timestamp int64) *Block {
	return NewBlock(1, time.Unix(timestamp, 0), config.GenesisProof, config.GenesisPreviousHash, nil)
}
