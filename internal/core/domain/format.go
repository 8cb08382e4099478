package domain

import (
	"regexp"
	"strings"
	"time"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/shopspring/decimal"
)

const (
	// STGDivisibility is the number of decimals of an STG amount.
	STGDivisibility = 6
	// PowerDivisibility is the number of units in one STG.
	PowerDivisibility = 1000000

	wsDateLayout = "2006-01-02T15:04:05"
)

var (
	base58Regexp         = regexp.MustCompile(`^[1-9A-HJ-NP-Za-km-z]{50,51}$`)
	stegosNumberRegexp   = regexp.MustCompile(`^-?\d+\.?\d{0,6}$`)
	positiveNumberRegexp = regexp.MustCompile(`^\d+\.?\d{0,6}$`)
)

// IsStegosNumber returns whether str is a number with at most 6 decimals.
func IsStegosNumber(str string) bool {
	return stegosNumberRegexp.MatchString(str)
}

func IsPositiveStegosNumber(str string) bool {
	return positiveNumberRegexp.MatchString(str)
}

// IsBase58Address returns whether addr looks like an account public key.
func IsBase58Address(addr string) bool {
	if !base58Regexp.MatchString(addr) {
		return false
	}
	return len(base58.Decode(addr)) > 0
}

// FormatDigit groups the integer part of the given number by thousands.
func FormatDigit(value string) string {
	intPart, fracPart, hasFrac := strings.Cut(value, ".")

	sign := ""
	if strings.HasPrefix(intPart, "-") {
		sign, intPart = "-", intPart[1:]
	}

	var b strings.Builder
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}

	formatted := sign + b.String()
	if hasFrac {
		formatted += "." + fracPart
	}
	return formatted
}

// FormatAmount converts an amount of units to a grouped STG string,
// ie. 1234567890 -> "1,234.56789".
func FormatAmount(units int64) string {
	return FormatDigit(decimal.New(units, -STGDivisibility).String())
}

// ParseAmount converts an STG string to units.
func ParseAmount(str string) (int64, error) {
	if !IsStegosNumber(str) {
		return 0, ErrInvalidAmount
	}
	amount, err := decimal.NewFromString(str)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	return amount.Shift(STGDivisibility).IntPart(), nil
}

// FormatDateForWs formats t the way the node expects timestamps in requests.
func FormatDateForWs(t time.Time) string {
	return t.UTC().Format(wsDateLayout) + ".000000000Z"
}

func YearAgo(now time.Time) time.Time {
	return now.AddDate(-1, 0, 0)
}
