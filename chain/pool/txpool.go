package pool

import (
	"github.com/emirpasic/gods/sets/treeset"
	"github.com/nknorg/powledger/transaction"
	"github.com/sasha-s/go-deadlock"
)

// TxnPool holds the transactions submitted since the last mined block,
// ordered and without duplicates.
type TxnPool struct {
	mu   deadlock.RWMutex
	txns *treeset.Set
}

func NewTxPool() *TxnPool {
	return &TxnPool{txns: treeset.NewWith(transaction.Comparator)}
}

// AppendTxnPool adds a copy of txn and reports whether it was new.
func (tp *TxnPool) AppendTxnPool(txn *transaction.Transaction) bool {
	if txn == nil {
		return false
	}

	tp.mu.Lock()
	defer tp.mu.Unlock()

	if tp.txns.Contains(txn) {
		return false
	}
	t := *txn
	tp.txns.Add(&t)

	return true
}

func (tp *TxnPool) Contains(txn *transaction.Transaction) bool {
	if txn == nil {
		return false
	}

	tp.mu.RLock()
	defer tp.mu.RUnlock()

	return tp.txns.Contains(txn)
}

func (tp *TxnPool) GetTxnCount() int {
	tp.mu.RLock()
	defer tp.mu.RUnlock()

	return tp.txns.Size()
}

// GetAllTransactions returns the pending transactions in canonical order.
func (tp *TxnPool) GetAllTransactions() []*transaction.Transaction {
	tp.mu.RLock()
	defer tp.mu.RUnlock()

	return tp.values()
}

// DrainTransactions empties the pool and returns what it held.
func (tp *TxnPool) DrainTransactions() []*transaction.Transaction {
	tp.mu.Lock()
	defer tp.mu.Unlock()

	txns := tp.values()
	tp.txns.Clear()

	return txns
}

func (tp *TxnPool) values() []*transaction.Transaction {
	values := tp.txns.Values()
	txns := make([]*transaction.Transaction, 0, len(values))
	for _, v := range values {
		t := *v.(*transaction.Transaction)
		txns = append(txns, &t)
	}
	return txns
}
