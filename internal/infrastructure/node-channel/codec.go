package nodechannel

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/stegos/walletd/internal/core/domain"
)

// Block notifications are sent by the node for every block, they are not
// folded and not even logged.
var chattyMessages = map[string]bool{
	"new_micro_block":      true,
	"new_macro_block":      true,
	"rollback_micro_block": true,
	"status_changed":       true,
}

// IsChatty returns whether the given discriminant belongs to the high
// frequency block notifications.
func IsChatty(kind string) bool {
	return chattyMessages[kind]
}

type accountInfo struct {
	AccountPkey string `json:"account_pkey"`
}

type message struct {
	Type         string `json:"type"`
	Notification string `json:"notification"`

	AccountID   string                 `json:"account_id"`
	Accounts    map[string]accountInfo `json:"accounts"`
	AccountPkey string                 `json:"account_pkey"`
	Current     int64                  `json:"current"`
	Recovery    string                 `json:"recovery"`
	Log         []domain.TxPayload     `json:"log"`

	IsSynchronized          bool   `json:"is_synchronized"`
	LastMacroBlockTimestamp string `json:"last_macro_block_timestamp"`
}

// DecodeEvent maps a node frame to the event it represents. Unknown
// discriminants are returned as domain.UnknownEvent.
func DecodeEvent(data []byte) (domain.Event, error) {
	var msg message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedMessage, err)
	}

	if msg.Notification != "" {
		switch msg.Notification {
		case domain.EventSyncChanged:
			return domain.SyncChanged{
				IsSynchronized:          msg.IsSynchronized,
				LastMacroBlockTimestamp: msg.LastMacroBlockTimestamp,
			}, nil
		case domain.EventEpochChanged:
			return domain.EpochChanged{
				LastMacroBlockTimestamp: msg.LastMacroBlockTimestamp,
			}, nil
		default:
			return domain.UnknownEvent{Type: msg.Notification}, nil
		}
	}

	switch msg.Type {
	case "":
		return nil, ErrMissingDiscriminant
	case domain.EventAccountsInfo:
		accounts := make(map[string]string, len(msg.Accounts))
		for id, info := range msg.Accounts {
			accounts[id] = info.AccountPkey
		}
		return domain.AccountsInfo{Accounts: accounts}, nil
	case domain.EventAccountCreated:
		return domain.NewAccountCreated(msg.AccountID), nil
	case domain.EventAccountInfo:
		return domain.NewAccountInfo(msg.AccountID, msg.AccountPkey), nil
	case domain.EventUnsealed:
		return domain.NewUnsealed(msg.AccountID), nil
	case domain.EventSealed:
		return domain.NewSealed(msg.AccountID), nil
	case domain.EventBalanceInfo:
		return domain.NewBalanceInfo(msg.AccountID, msg.Current), nil
	case domain.EventBalanceChanged:
		return domain.NewBalanceChanged(msg.AccountID, msg.Current), nil
	case domain.EventRecovery:
		return domain.NewRecovery(msg.AccountID, msg.Recovery), nil
	case domain.EventHistoryInfo:
		return domain.NewHistoryInfo(msg.AccountID, msg.Log), nil
	case domain.EventTransactionCreated, domain.EventTransactionStatus:
		var tx domain.TxPayload
		if err := json.Unmarshal(data, &tx); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrMalformedMessage, err)
		}
		// The discriminant shares the field with the ledger entry type.
		tx.Type = ""
		if msg.Type == domain.EventTransactionCreated {
			return domain.NewTransactionCreated(msg.AccountID, tx), nil
		}
		return domain.NewTransactionStatus(msg.AccountID, tx), nil
	default:
		return domain.UnknownEvent{Type: msg.Type}, nil
	}
}

// Request is a message sent to the node.
type Request struct {
	Type         string `json:"type"`
	AccountID    string `json:"account_id,omitempty"`
	StartingFrom string `json:"starting_from,omitempty"`
	Limit        int    `json:"limit,omitempty"`
}

func NewAccountsInfoRequest() Request {
	return Request{Type: domain.EventAccountsInfo}
}

func NewBalanceInfoRequest(accountID string) Request {
	return Request{Type: domain.EventBalanceInfo, AccountID: accountID}
}

// NewHistoryInfoRequest returns a history request. A zero startingFrom means
// one year ago.
func NewHistoryInfoRequest(
	accountID string, startingFrom time.Time, limit int,
) Request {
	if startingFrom.IsZero() {
		startingFrom = domain.YearAgo(time.Now())
	}
	return Request{
		Type:         domain.EventHistoryInfo,
		AccountID:    accountID,
		StartingFrom: domain.FormatDateForWs(startingFrom),
		Limit:        limit,
	}
}

func (r Request) Encode() []byte {
	buf, _ := json.Marshal(r)
	return buf
}
