package domain

import (
	"strings"
	"time"
)

const (
	// DirectionSend marks a transaction originated by the account.
	DirectionSend Direction = "Send"
	// DirectionReceive marks funds received by the account.
	DirectionReceive Direction = "Receive"

	// OutgoingTxType is the type tag the node uses for entries it classified as
	// spent by the account.
	OutgoingTxType = "outgoing"
)

type Direction string

func (d Direction) IsSend() bool {
	return d == DirectionSend
}

// TxPayload is a ledger entry as received from the node, either within a
// history batch or as a transaction lifecycle notification. Optional numeric
// fields are pointers so that a status overlay replaces only what the node
// actually sent.
type TxPayload struct {
	Type      string `json:"type,omitempty"`
	TxHash    string `json:"tx_hash,omitempty"`
	UTXO      string `json:"utxo,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
	IsChange  bool   `json:"is_change,omitempty"`
	Amount    *int64 `json:"amount,omitempty"`
	Fee       *int64 `json:"fee,omitempty"`
	Recipient string `json:"recipient,omitempty"`
	Comment   string `json:"comment,omitempty"`
	Status    string `json:"status,omitempty"`
}

func (p TxPayload) IsOutgoing() bool {
	return strings.ToLower(p.Type) == OutgoingTxType
}

// Transaction is a single entry of an account ledger.
type Transaction struct {
	// ID identifies the entry within its account: the tx hash for outgoing
	// entries, the utxo for incoming ones.
	ID        string
	Direction Direction
	Timestamp time.Time
	TxHash    string
	UTXO      string
	Sender    string
	Recipient string
	Comment   string
	Amount    int64
	Fee       int64
	Status    string
	IsChange  bool
}

// IsVisible tells whether the entry belongs to the visible ledger. Change
// outputs are internal and shown only as part of a send.
func (t Transaction) IsVisible() bool {
	return t.Direction.IsSend() || !t.IsChange
}

// NewOutgoingTransaction returns a Send entry for the given payload. Entries
// without a timestamp are stamped with now, entries without a tx hash get a
// placeholder id from newID.
func NewOutgoingTransaction(
	p TxPayload, account *Account, now time.Time, newID func() string,
) Transaction {
	ts, ok := parseTimestamp(p.Timestamp)
	if !ok {
		ts = now
	}
	id := p.TxHash
	if id == "" {
		id = newID()
	}
	var sender string
	if account != nil {
		sender = account.Address
	}

	tx := Transaction{
		ID:        id,
		Direction: DirectionSend,
		Timestamp: ts,
		Sender:    sender,
	}
	return tx.overlay(p)
}

// NewIncomingTransaction returns a Receive entry keyed by the payload utxo.
// A malformed timestamp yields the zero time.
func NewIncomingTransaction(p TxPayload) Transaction {
	ts, _ := parseTimestamp(p.Timestamp)
	tx := Transaction{
		ID:        p.UTXO,
		Direction: DirectionReceive,
		Timestamp: ts,
		IsChange:  p.IsChange,
	}
	return tx.overlay(p)
}

// overlay copies the fields carried by the payload on top of the entry. The
// id, direction and timestamp are never touched.
func (t Transaction) overlay(p TxPayload) Transaction {
	if p.TxHash != "" {
		t.TxHash = p.TxHash
	}
	if p.UTXO != "" {
		t.UTXO = p.UTXO
	}
	if p.Amount != nil {
		t.Amount = *p.Amount
	}
	if p.Fee != nil {
		t.Fee = *p.Fee
	}
	if p.Recipient != "" {
		t.Recipient = p.Recipient
	}
	if p.Comment != "" {
		t.Comment = p.Comment
	}
	if p.Status != "" {
		t.Status = p.Status
	}
	if p.IsChange {
		t.IsChange = true
	}
	return t
}

func (t Transaction) payload() TxPayload {
	amount, fee := t.Amount, t.Fee
	return TxPayload{
		TxHash:    t.TxHash,
		UTXO:      t.UTXO,
		IsChange:  t.IsChange,
		Amount:    &amount,
		Fee:       &fee,
		Recipient: t.Recipient,
		Comment:   t.Comment,
		Status:    t.Status,
	}
}

// withStatus applies a transaction_status notification to the entry.
func (t Transaction) withStatus(p TxPayload) Transaction {
	t = t.overlay(p)
	t.Direction = DirectionSend
	return t
}

func parseTimestamp(ts string) (time.Time, bool) {
	if ts == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
