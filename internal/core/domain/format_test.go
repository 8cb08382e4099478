package domain_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stegos/walletd/internal/core/domain"
	"github.com/stretchr/testify/require"
)

func TestFormatDigit(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"0":            "0",
		"123":          "123",
		"1234":         "1,234",
		"1234567.8912": "1,234,567.8912",
		"-1234567":     "-1,234,567",
	}
	for value, expected := range tests {
		require.Equal(t, expected, domain.FormatDigit(value))
	}
}

func TestAmounts(t *testing.T) {
	t.Parallel()

	require.Equal(t, "1,234.56789", domain.FormatAmount(1234567890))
	require.Equal(t, "0.000001", domain.FormatAmount(1))

	units, err := domain.ParseAmount("1.5")
	require.NoError(t, err)
	require.Equal(t, int64(1500000), units)

	_, err = domain.ParseAmount("1.1234567")
	require.ErrorIs(t, err, domain.ErrInvalidAmount)

	require.True(t, domain.IsStegosNumber("-1.25"))
	require.False(t, domain.IsPositiveStegosNumber("-1.25"))
}

func TestIsBase58Address(t *testing.T) {
	t.Parallel()

	require.True(t, domain.IsBase58Address(strings.Repeat("2", 50)))
	require.False(t, domain.IsBase58Address(strings.Repeat("2", 49)))
	require.False(t, domain.IsBase58Address(strings.Repeat("0", 50)))
}

func TestFormatDateForWs(t *testing.T) {
	t.Parallel()

	ts := time.Date(2023, 1, 2, 3, 4, 5, 6, time.UTC)
	require.Equal(t, "2023-01-02T03:04:05.000000000Z", domain.FormatDateForWs(ts))
	require.Equal(t, time.Date(2022, 1, 2, 3, 4, 5, 6, time.UTC), domain.YearAgo(ts))
}
