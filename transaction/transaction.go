package transaction

import (
	"fmt"
	"strings"
)

// Transaction moves Amount from Sender to Recipient. Transactions have no
// nonce, so two transfers with equal fields are the same transaction.
type Transaction struct {
	Sender    string `json:"sender"`
	Recipient string `json:"recipient"`
	Amount    uint64 `json:"amount"`
}

func NewTransaction(sender, recipient string, amount uint64) *Transaction {
	return &Transaction{
		Sender:    sender,
		Recipient: recipient,
		Amount:    amount,
	}
}

// Verify checks the fields a submitted transaction must carry.
func (tx *Transaction) Verify() error {
	if tx == nil {
		return fmt.Errorf("nil transaction")
	}
	if len(strings.TrimSpace(tx.Sender)) == 0 {
		return fmt.Errorf("empty sender")
	}
	if len(strings.TrimSpace(tx.Recipient)) == 0 {
		return fmt.Errorf("empty recipient")
	}
	return nil
}

func (tx *Transaction) String() string {
	return fmt.Sprintf("%s -> %s: %d", tx.Sender, tx.Recipient, tx.Amount)
}
