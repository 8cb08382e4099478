package domain

import (
	"math"
	"time"
)

const (
	minSyncingProgress = 0
	maxSyncingProgress = 100
)

// EstimateProgress estimates the chain synchronization percentage from the
// timestamp of the first block received, the latest one and the current
// time: round(100 * (last - first) / (now - first)).
// The result is not clamped. It is 0 when now equals first.
func EstimateProgress(first, last, now time.Time) int {
	elapsed := now.Sub(first)
	if elapsed == 0 {
		return 0
	}
	synced := last.Sub(first)
	return int(math.Round(float64(synced) / float64(elapsed) * 100))
}

func clampProgress(progress int) int {
	if progress < minSyncingProgress {
		return minSyncingProgress
	}
	if progress > maxSyncingProgress {
		return maxSyncingProgress
	}
	return progress
}
