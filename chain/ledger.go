package chain

import (
	"context"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/nknorg/powledger/block"
	"github.com/nknorg/powledger/chain/pool"
	"github.com/nknorg/powledger/config"
	"github.com/nknorg/powledger/errors"
	"github.com/nknorg/powledger/event"
	"github.com/nknorg/powledger/transaction"
	"github.com/nknorg/powledger/util/log"
	"github.com/pborman/uuid"
	"github.com/sasha-s/go-deadlock"
	orderedmap "github.com/wk8/go-ordered-map"
)

// Ledger is one node's view of the chain, its pending transactions and the
// peers it reconciles with. All methods are safe for concurrent use.
type Ledger struct {
	mu       deadlock.RWMutex
	chain    *block.Chain
	txnPool  *pool.TxnPool
	peers    *orderedmap.OrderedMap
	miningMu sync.Mutex // held for a whole proof search, which may be long

	difficulty       uint32
	nodeID           string
	genesisTimestamp int64
	now              func() time.Time
}

var ErrInvalidDifficulty = errors.NewErr("invalid difficulty")

type Option func(*Ledger)

// NewNodeID returns a random node identity: a uuid in hex without dashes.
func NewNodeID() string {
	return hex.EncodeToString(uuid.NewRandom())
}

// WithNodeID sets the recipient of mining rewards. Without it, or with an
// empty id, the ledger uses a random NewNodeID.
func WithNodeID(nodeID string) Option {
	return func(l *Ledger) {
		l.nodeID = nodeID
	}
}

// WithGenesisTimestamp sets the genesis block timestamp. Nodes that want to
// agree on a chain must use the same value.
func WithGenesisTimestamp(timestamp int64) Option {
	return func(l *Ledger) {
		l.genesisTimestamp = timestamp
	}
}

func withClock(now func() time.Time) Option {
	return func(l *Ledger) {
		l.now = now
	}
}

func NewLedger(difficulty uint32, opts ...Option) (*Ledger, error) {
	if difficulty > config.MaxDifficulty {
		return nil, errors.NewDetailErr(ErrInvalidDifficulty, errors.ErrInvalidParams, fmt.Sprintf("difficulty %d exceeds %d", difficulty, config.MaxDifficulty))
	}

	l := &Ledger{
		txnPool:          pool.NewTxPool(),
		peers:            orderedmap.New(),
		difficulty:       difficulty,
		genesisTimestamp: config.GenesisTimestamp,
		now:              time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	if len(l.nodeID) == 0 {
		l.nodeID = NewNodeID()
	}
	l.chain = block.NewChain(block.NewGenesisBlock(l.genesisTimestamp))

	return l, nil
}

func (l *Ledger) Difficulty() uint32 {
	return l.difficulty
}

func (l *Ledger) NodeID() string {
	return l.nodeID
}

// SubmitTransaction queues txn for the next block and returns the index that
// block will most likely get.
func (l *Ledger) SubmitTransaction(txn *transaction.Transaction) uint64 {
	l.mu.Lock()
	added := l.txnPool.AppendTxnPool(txn)
	index := l.chain.Last().Index + 1
	l.mu.Unlock()

	if added {
		event.Queue.Notify(event.TransactionReceived, txn)
	}

	return index
}

// Mine searches for the next proof and appends a block holding every pending
// transaction plus the mining reward. If the chain tip changes during the
// search, the search restarts on the new tip. On error the ledger is left
// untouched.
func (l *Ledger) Mine(ctx context.Context) (*block.Block, error) {
	l.miningMu.Lock()
	defer l.miningMu.Unlock()

	for {
		last := l.LastBlock()
		proof, err := ProofOfWork(ctx, last.Proof, l.difficulty)
		if err != nil {
			return nil, err
		}

		b, err := l.commitBlock(last, proof)
		if err == errStaleTip {
			log.Infof("Chain tip changed while mining on block %d, restarting", last.Index)
			continue
		}
		if err != nil {
			return nil, err
		}

		log.Infof("Mined block %d with proof %d and %d transactions", b.Index, b.Proof, len(b.Transactions))
		event.Queue.Notify(event.BlockMined, b)

		return b, nil
	}
}

var errStaleTip = errors.NewErr("chain tip changed")

func (l *Ledger) commitBlock(last *block.Block, proof uint64) (*block.Block, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.chain.Last() != last {
		return nil, errStaleTip
	}

	previousHash, err := last.Hash()
	if err != nil {
		return nil, err
	}

	txns := append(l.txnPool.GetAllTransactions(), transaction.NewTransaction(config.MiningRewardSender, l.nodeID, config.MiningRewardAmount))
	b := block.NewBlock(last.Index+1, l.now(), proof, previousHash, txns)
	l.chain.Add(b)
	l.txnPool.DrainTransactions()

	return b, nil
}

// RegisterNode adds a peer address after normalizing it. It reports whether
// the peer was new.
func (l *Ledger) RegisterNode(address string) (bool, error) {
	addr, err := config.NormalizeAddress(address)
	if err != nil {
		return false, errors.NewDetailErr(err, errors.ErrInvalidParams, "invalid node address "+address)
	}

	l.mu.Lock()
	_, exists := l.peers.Get(addr)
	if !exists {
		l.peers.Set(addr, struct{}{})
	}
	l.mu.Unlock()

	if exists {
		return false, nil
	}

	log.Infof("Registered peer %s", addr)
	event.Queue.Notify(event.PeerRegistered, addr)

	return true, nil
}

// Peers returns the peer addresses in registration order.
func (l *Ledger) Peers() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	peers := make([]string, 0, l.peers.Len())
	for pair := l.peers.Oldest(); pair != nil; pair = pair.Next() {
		peers = append(peers, pair.Key.(string))
	}

	return peers
}

// ReplaceChain adopts c unconditionally. Callers decide whether c deserves it.
func (l *Ledger) ReplaceChain(c *block.Chain) {
	newChain := c.Copy()

	l.mu.Lock()
	oldLen := l.chain.Len()
	l.chain = newChain
	l.mu.Unlock()

	log.Infof("Replaced chain of length %d with chain of length %d", oldLen, newChain.Len())
	event.Queue.Notify(event.ChainReplaced, newChain.Copy())
}

// Chain returns a snapshot of the current chain.
func (l *Ledger) Chain() *block.Chain {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.chain.Copy()
}

func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.chain.Len()
}

func (l *Ledger) LastBlock() *block.Block {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.chain.Last()
}

func (l *Ledger) PendingTransactions() []*transaction.Transaction {
	return l.txnPool.GetAllTransactions()
}
