package consensus

import (
	"context"

	"github.com/nknorg/consequential"
	"github.com/nknorg/powledger/block"
	"github.com/nknorg/powledger/util/log"
)

// ChainFetcher retrieves the raw serialized chain a peer serves.
type ChainFetcher interface {
	FetchChain(ctx context.Context, address string) ([]byte, error)
}

// ChainFetcherFunc adapts a plain function to ChainFetcher.
type ChainFetcherFunc func(ctx context.Context, address string) ([]byte, error)

func (f ChainFetcherFunc) FetchChain(ctx context.Context, address string) ([]byte, error) {
	return f(ctx, address)
}

// Ledger is the part of chain.Ledger the resolver needs.
type Ledger interface {
	Len() int
	Peers() []string
	ValidChain(c *block.Chain) bool
	ReplaceChain(c *block.Chain)
}

// Resolver adopts the longest valid chain among a ledger's peers.
type Resolver struct {
	fetcher     ChainFetcher
	parallel    bool
	maxParallel int
}

func NewResolver(fetcher ChainFetcher, parallel bool) *Resolver {
	return &Resolver{
		fetcher:     fetcher,
		parallel:    parallel,
		maxParallel: maxParallelFetch,
	}
}

// candidate with a nil chain marks a peer that was skipped.
type candidate struct {
	address string
	chain   *block.Chain
}

// Resolve fetches every peer's chain and replaces the ledger's chain with the
// first one, in peer registration order, that is strictly longer than any
// seen before and valid. Peers that fail to answer or answer garbage are
// skipped. It reports whether the chain was replaced.
func (r *Resolver) Resolve(ctx context.Context, ledger Ledger) bool {
	peers := ledger.Peers()
	maxLength := ledger.Len()

	var candidates []*candidate
	if r.parallel && len(peers) > 1 {
		candidates = r.fetchParallel(ctx, peers)
	} else {
		candidates = r.fetchSequential(ctx, peers)
	}

	var best *candidate
	for _, c := range candidates {
		if c == nil || c.chain == nil {
			continue
		}
		if c.chain.Len() > maxLength && ledger.ValidChain(c.chain) {
			maxLength = c.chain.Len()
			best = c
		}
	}

	if best == nil {
		log.Debugf("Local chain of length %d is authoritative among %d peers", ledger.Len(), len(peers))
		return false
	}

	log.Infof("Adopting chain of length %d from %s", best.chain.Len(), best.address)
	ledger.ReplaceChain(best.chain)

	return true
}

func (r *Resolver) fetchSequential(ctx context.Context, peers []string) []*candidate {
	candidates := make([]*candidate, len(peers))
	for i, address := range peers {
		candidates[i] = r.fetchCandidate(ctx, address)
	}
	return candidates
}

// fetchParallel fetches concurrently but finishes jobs in peer order, so the
// reduction sees the same order as a sequential fetch.
func (r *Resolver) fetchParallel(ctx context.Context, peers []string) []*candidate {
	candidates := make([]*candidate, len(peers))

	numWorkers := uint32(len(peers))
	if numWorkers > uint32(r.maxParallel) {
		numWorkers = uint32(r.maxParallel)
	}

	fetch := func(ctx context.Context, workerID, peerID uint32) (interface{}, bool) {
		return r.fetchCandidate(ctx, peers[peerID]), true
	}

	finish := func(ctx context.Context, peerID uint32, result interface{}) bool {
		c, ok := result.(*candidate)
		if !ok {
			log.Warningf("Convert fetch result error")
			return false
		}
		candidates[peerID] = c
		return true
	}

	cs, err := consequential.NewConSequential(&consequential.Config{
		StartJobID:          0,
		EndJobID:            uint32(len(peers) - 1),
		JobBufSize:          uint32(len(peers)),
		WorkerPoolSize:      numWorkers,
		MaxWorkerFails:      maxFetchWorkerFails,
		WorkerStartInterval: fetchWorkerStartInterval,
		RunJob:              fetch,
		FinishJob:           finish,
	})
	if err != nil {
		log.Errorf("Create parallel fetcher error: %v", err)
		return r.fetchSequential(ctx, peers)
	}

	err = cs.Start(ctx)
	if err != nil {
		log.Warningf("Parallel fetch error: %v", err)
	}

	return candidates
}

func (r *Resolver) fetchCandidate(ctx context.Context, address string) *candidate {
	data, err := r.fetcher.FetchChain(ctx, address)
	if err != nil {
		log.Warningf("Fetch chain from %s error: %v", address, err)
		return &candidate{address: address}
	}

	c, err := block.DecodeChain(data)
	if err != nil {
		log.Warningf("Decode chain from %s error: %v", address, err)
		return &candidate{address: address}
	}

	return &candidate{address: address, chain: c}
}

// Resolve runs a sequential resolution of ledger against fetcher.
func Resolve(ctx context.Context, ledger Ledger, fetcher ChainFetcher) bool {
	return NewResolver(fetcher, false).Resolve(ctx, ledger)
}
