package consensus

import (
	"context"
	"sync"
	"time"

	"github.com/nknorg/powledger/chain"
	"github.com/nknorg/powledger/util/log"
)

// Consensus drives a ledger in the background: it mines pending transactions
// and resolves against peers on fixed intervals. A zero interval disables
// the corresponding loop.
type Consensus struct {
	ledger          *chain.Ledger
	resolver        *Resolver
	miningInterval  time.Duration
	resolveInterval time.Duration
	startOnce       sync.Once
	wg              sync.WaitGroup
}

func NewConsensus(ledger *chain.Ledger, resolver *Resolver, miningInterval, resolveInterval time.Duration) *Consensus {
	return &Consensus{
		ledger:          ledger,
		resolver:        resolver,
		miningInterval:  miningInterval,
		resolveInterval: resolveInterval,
	}
}

// Resolve runs one resolution round against the ledger's peers.
func (consensus *Consensus) Resolve(ctx context.Context) bool {
	return consensus.resolver.Resolve(ctx, consensus.ledger)
}

// Start launches the background loops. They stop when ctx is done.
func (consensus *Consensus) Start(ctx context.Context) {
	consensus.startOnce.Do(func() {
		if consensus.miningInterval > 0 {
			consensus.wg.Add(1)
			go consensus.startMining(ctx)
		}
		if consensus.resolveInterval > 0 {
			consensus.wg.Add(1)
			go consensus.startResolving(ctx)
		}
	})
}

// Wait blocks until every loop started by Start has returned.
func (consensus *Consensus) Wait() {
	consensus.wg.Wait()
}

func (consensus *Consensus) startMining(ctx context.Context) {
	defer consensus.wg.Done()

	ticker := time.NewTicker(consensus.miningInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if len(consensus.ledger.PendingTransactions()) == 0 {
			continue
		}

		if _, err := consensus.ledger.Mine(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Errorf("Mine block error: %v", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(miningRetryDelay):
			}
		}
	}
}

func (consensus *Consensus) startResolving(ctx context.Context) {
	defer consensus.wg.Done()

	ticker := time.NewTicker(consensus.resolveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if len(consensus.ledger.Peers()) == 0 {
			continue
		}

		consensus.Resolve(ctx)
	}
}
