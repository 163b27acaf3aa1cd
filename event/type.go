package event

type EventType uint8

const (
	// BlockMined carries the *block.Block appended by the local miner.
	BlockMined EventType = iota
	// ChainReplaced carries the *block.Chain adopted from a peer.
	ChainReplaced
	// TransactionReceived carries the submitted *transaction.Transaction.
	TransactionReceived
	// PeerRegistered carries the normalized peer address string.
	PeerRegistered
)

var eventNames = map[EventType]string{
	BlockMined:          "blockMined",
	ChainReplaced:       "chainReplaced",
	TransactionReceived: "transactionReceived",
	PeerRegistered:      "peerRegistered",
}

func (t EventType) String() string {
	if name, ok := eventNames[t]; ok {
		return name
	}
	return "unknown"
}

// AllEventTypes lists every event the ledger emits.
func AllEventTypes() []EventType {
	return []EventType{BlockMined, ChainReplaced, TransactionReceived, PeerRegistered}
}
