package chain

import (
	"context"
	"strconv"
	"strings"

	"github.com/nknorg/powledger/block"
	"github.com/nknorg/powledger/util/log"
)

const ctxCheckInterval = 4096

// ValidProof reports whether sha256 of the decimal concatenation of
// lastProof and proof starts with difficulty hex zeros.
func ValidProof(lastProof, proof uint64, difficulty uint32) bool {
	if difficulty > 64 {
		return false
	}
	guess := strconv.FormatUint(lastProof, 10) + strconv.FormatUint(proof, 10)
	return strings.HasPrefix(block.HashString([]byte(guess)), strings.Repeat("0", int(difficulty)))
}

// ProofOfWork returns the smallest proof satisfying ValidProof for
// lastProof. It gives up with ctx.Err() once ctx is done.
func ProofOfWork(ctx context.Context, lastProof uint64, difficulty uint32) (uint64, error) {
	for proof := uint64(0); ; proof++ {
		if proof%ctxCheckInterval == 0 {
			select {
			case <-ctx.Done():
				log.Infof("Proof of work for last proof %d cancelled after %d attempts", lastProof, proof)
				return 0, ctx.Err()
			default:
			}
		}
		if ValidProof(lastProof, proof, difficulty) {
			log.Debugf("Found proof %d for last proof %d at difficulty %d", proof, lastProof, difficulty)
			return proof, nil
		}
	}
}
