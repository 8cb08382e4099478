package circuitbreaker

import (
	"testing"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/require"
)

func TestReadyToTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		counts   gobreaker.Counts
		expected bool
	}{
		{"no_requests", gobreaker.Counts{}, false},
		{"few_requests", gobreaker.Counts{Requests: 5, TotalFailures: 5}, false},
		{"low_ratio", gobreaker.Counts{Requests: 20, TotalFailures: 5}, false},
		{"trip", gobreaker.Counts{Requests: 20, TotalFailures: 15}, true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.expected, readyToTrip(tt.counts))
		})
	}
}

func TestNewCircuitBreaker(t *testing.T) {
	cb := NewCircuitBreaker("webhooks")
	require.Equal(t, "webhooks", cb.Name())
	require.Equal(t, gobreaker.StateClosed, cb.State())
}
