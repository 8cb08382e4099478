package domain

import "time"

// NodeState tracks the liveness of the node and the progress of its chain
// synchronization, as derived from the event stream.
type NodeState struct {
	IsStarted       bool
	IsConnected     bool
	IsSynced        bool
	SyncingProgress int
	APIToken        string
	// Zero when no block timestamp was received yet.
	FirstReceivedBlockTimestamp time.Time
	LastReceivedBlockTimestamp  time.Time
}

// withBlockTimestamp updates the block timestamps window with the given
// sample and recomputes the syncing progress. The progress is clamped to
// [0, 100] and never decreases. A malformed sample leaves the state as is.
func (n NodeState) withBlockTimestamp(rawTimestamp string, now time.Time) NodeState {
	ts, ok := parseTimestamp(rawTimestamp)
	if !ok {
		return n
	}

	first := n.FirstReceivedBlockTimestamp
	if first.IsZero() {
		first = ts
	}
	n.FirstReceivedBlockTimestamp = first
	n.LastReceivedBlockTimestamp = ts

	if n.IsSynced {
		return n
	}
	progress := clampProgress(EstimateProgress(first, ts, now))
	if progress > n.SyncingProgress {
		n.SyncingProgress = progress
	}
	return n
}
