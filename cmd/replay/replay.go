package main

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"
	"github.com/stegos/walletd/internal/core/domain"
	nodechannel "github.com/stegos/walletd/internal/infrastructure/node-channel"
)

const maxLineSize = 16 * 1024 * 1024

type accountSummary struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Balance          int64  `json:"balance"`
	FormattedBalance string `json:"formatted_balance"`
	Sent             int    `json:"sent"`
	Received         int    `json:"received"`
}

type report struct {
	Messages        int              `json:"messages"`
	Skipped         int              `json:"skipped"`
	Unknown         int              `json:"unknown"`
	IsSynced        bool             `json:"is_synced"`
	SyncingProgress int              `json:"syncing_progress"`
	Accounts        []accountSummary `json:"accounts"`
}

// replay folds every message of the capture into an empty snapshot.
// Malformed lines are skipped unless strict is set.
func replay(r io.Reader, strict bool) (*report, error) {
	reducer := domain.NewReducer()
	snapshot := domain.NewSnapshot()
	rep := &report{}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	line := 0
	for scanner.Scan() {
		line++
		frame := bytes.TrimSpace(scanner.Bytes())
		if len(frame) <= 0 {
			continue
		}

		ev, err := nodechannel.DecodeEvent(frame)
		if err != nil {
			if strict {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			log.WithError(err).Warnf("skipping line %d", line)
			rep.Skipped++
			continue
		}

		rep.Messages++
		if _, ok := ev.(domain.UnknownEvent); ok {
			rep.Unknown++
		}
		snapshot = reducer.Reduce(snapshot, ev)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	rep.IsSynced = snapshot.Node.IsSynced
	rep.SyncingProgress = snapshot.Node.SyncingProgress
	rep.Accounts = make([]accountSummary, 0, len(snapshot.Accounts))
	for _, acc := range snapshot.Accounts.List() {
		summary := accountSummary{
			ID:               acc.ID,
			Name:             acc.DisplayName(),
			Balance:          acc.Balance,
			FormattedBalance: domain.FormatAmount(acc.Balance),
		}
		for _, tx := range acc.Transactions {
			if tx.Direction.IsSend() {
				summary.Sent++
			} else {
				summary.Received++
			}
		}
		rep.Accounts = append(rep.Accounts, summary)
	}
	return rep, nil
}
