package node

import (
	"context"
	"sync"
	"time"

	"github.com/nknorg/powledger/api/httpjson/client"
	"github.com/nknorg/powledger/chain"
	"github.com/nknorg/powledger/config"
	"github.com/nknorg/powledger/consensus"
	"github.com/nknorg/powledger/util/log"
)

// LocalNode is a ledger plus the machinery that keeps it in step with its
// peers.
type LocalNode struct {
	*chain.Ledger
	consensus *consensus.Consensus

	startOnce sync.Once
	startTime time.Time // Time of localNode init
}

// NewLocalNode builds a node from config.Parameters, registering every seed
// as a peer.
func NewLocalNode() (*LocalNode, error) {
	return NewLocalNodeWithFetcher(client.NewClientFromConfig())
}

func NewLocalNodeWithFetcher(fetcher consensus.ChainFetcher) (*LocalNode, error) {
	// An empty NodeIdentifier makes the ledger pick a random one.
	ledger, err := chain.NewLedger(
		config.Parameters.Difficulty,
		chain.WithNodeID(config.Parameters.NodeIdentifier),
		chain.WithGenesisTimestamp(config.Parameters.GenesisTimestamp),
	)
	if err != nil {
		return nil, err
	}

	for _, seed := range config.Parameters.SeedList {
		if _, err := ledger.RegisterNode(seed); err != nil {
			return nil, err
		}
	}

	resolver := consensus.NewResolver(fetcher, config.Parameters.ParallelFetch)
	ln := &LocalNode{
		Ledger:    ledger,
		consensus: consensus.NewConsensus(ledger, resolver, config.Parameters.GetMiningInterval(), config.Parameters.GetResolveInterval()),
		startTime: time.Now(),
	}

	log.Infof("Local node %s created with difficulty %d and %d seeds", ledger.NodeID(), ledger.Difficulty(), len(config.Parameters.SeedList))

	return ln, nil
}

// Start launches background mining and resolution. Both stop with ctx.
func (ln *LocalNode) Start(ctx context.Context) {
	ln.startOnce.Do(func() {
		ln.consensus.Start(ctx)
	})
}

// Wait blocks until the loops launched by Start have returned.
func (ln *LocalNode) Wait() {
	ln.consensus.Wait()
}

// Resolve runs one resolution round against the registered peers.
func (ln *LocalNode) Resolve(ctx context.Context) bool {
	return ln.consensus.Resolve(ctx)
}

func (ln *LocalNode) GetUptime() time.Duration {
	return time.Since(ln.startTime)
}
