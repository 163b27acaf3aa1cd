package block

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"time"

	"github.com/nknorg/powledger/errors"
	"github.com/nknorg/powledger/transaction"
)

// Block is immutable once created. The json field order below is the
// canonical encoding and must not change.
type Block struct {
	Index        uint64                     `json:"index"`
	Timestamp    int64                      `json:"timestamp"`
	Proof        uint64                     `json:"proof"`
	PreviousHash string                     `json:"previous_hash"`
	Transactions []*transaction.Transaction `json:"transactions"`
}

// NewBlock builds a block holding a sorted, duplicate free copy of txns.
func NewBlock(index uint64, timestamp time.Time, proof uint64, previousHash string, txns []*transaction.Transaction) *Block {
	return &Block{
		Index:        index,
		Timestamp:    timestamp.Unix(),
		Proof:        proof,
		PreviousHash: previousHash,
		Transactions: NormalizeTransactions(txns),
	}
}

// NormalizeTransactions returns txns sorted with duplicates and nils removed.
// The result is never nil so it always encodes as a json array.
func NormalizeTransactions(txns []*transaction.Transaction) []*transaction.Transaction {
	sorted := make([]*transaction.Transaction, 0, len(txns))
	for _, txn := range txns {
		if txn != nil {
			t := *txn
			sorted = append(sorted, &t)
		}
	}
	sort.Stable(transaction.SortTxns(sorted))

	result := sorted[:0]
	for i, txn := range sorted {
		if i > 0 && transaction.Compare(sorted[i-1], txn) == 0 {
			continue
		}
		result = append(result, txn)
	}
	return result
}

func (b *Block) normalized() *Block {
	nb := *b
	nb.Transactions = NormalizeTransactions(b.Transactions)
	return &nb
}

// Marshal returns the canonical encoding of the block: compact json, fixed
// field order, transactions sorted, no html escaping.
func (b *Block) Marshal() ([]byte, error) {
	if b == nil {
		return nil, errors.NewDetailErrf(errors.ErrHashFailure, "nil block")
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(b.normalized()); err != nil {
		return nil, errors.NewDetailErr(err, errors.ErrHashFailure, "encode block")
	}

	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Hash returns the hex encoded sha256 digest of the canonical encoding. The
// error, always of kind ErrHashFailure, is only possible for a nil block.
func (b *Block) Hash() (string, error) {
	data, err := b.Marshal()
	if err != nil {
		return "", err
	}
	return HashString(data), nil
}

// HashString is the digest shared by block hashing and proof of work.
func HashString(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Compare totally orders blocks by index, timestamp, proof, previous hash and
// finally transactions.
func Compare(b1, b2 *Block) int {
	switch {
	case b1.Index < b2.Index:
		return -1
	case b1.Index > b2.Index:
		return 1
	case b1.Timestamp < b2.Timestamp:
		return -1
	case b1.Timestamp > b2.Timestamp:
		return 1
	case b1.Proof < b2.Proof:
		return -1
	case b1.Proof > b2.Proof:
		return 1
	case b1.PreviousHash < b2.PreviousHash:
		return -1
	case b1.PreviousHash > b2.PreviousHash:
		return 1
	}
	return transaction.CompareSlices(b1.Transactions, b2.Transactions)
}

func Comparator(a, b interface{}) int {
	return Compare(a.(*Block), b.(*Block))
}
