package chain

import (
	"github.com/nknorg/powledger/block"
	"github.com/nknorg/powledger/util/log"
)

// ValidChain checks that every block links to the hash of its predecessor
// and carries a proof valid for the predecessor's proof at the ledger's
// difficulty. The genesis block itself is not inspected.
func (l *Ledger) ValidChain(c *block.Chain) bool {
	return ValidChain(c, l.difficulty)
}

func ValidChain(c *block.Chain, difficulty uint32) bool {
	blocks := c.Blocks()
	for i := 1; i < len(blocks); i++ {
		prev, cur := blocks[i-1], blocks[i]

		prevHash, err := prev.Hash()
		if err != nil {
			log.Warningf("Hash block %d error: %v", prev.Index, err)
			return false
		}

		if cur.PreviousHash != prevHash {
			log.Warningf("Block %d previous hash %s does not match %s", cur.Index, cur.PreviousHash, prevHash)
			return false
		}

		if !ValidProof(prev.Proof, cur.Proof, difficulty) {
			log.Warningf("Block %d proof %d is not valid for last proof %d", cur.Index, cur.Proof, prev.Proof)
			return false
		}
	}

	return true
}
