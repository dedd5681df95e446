package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"2822.54", "2822.54", false},
		{"-12.60", "-12.6", false},
		{"S$12,120.72", "12120.72", false},
		{"$1,234.56", "1234.56", false},
		{"(45.00)", "-45", false},
		{" 0.00 ", "0", false},
		{"", "", true},
		{"N/A", "", true},
		{"2025-08-18", "", true}, // dates must not parse as amounts
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrNotAnAmount)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestFormat(t *testing.T) {
	d := decimal.RequireFromString("2822.54")
	assert.Equal(t, "$2,822.54", Format(d, USD))

	neg := decimal.RequireFromString("-12.6")
	assert.Equal(t, "-$12.60", Format(neg, USD))
}

func TestFormat_UnknownCurrencyFallsBackToUSD(t *testing.T) {
	d := decimal.RequireFromString("1")
	assert.Equal(t, "$1.00", Format(d, "???"))
}
