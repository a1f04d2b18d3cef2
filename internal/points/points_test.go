package points

import (
	"testing"

	"kiosk-checkout/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidPhone(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"01012345678", true},
		{"0101234567", true},
		{"010-1234-5678", true},
		{"011 123 4567", true},
		{"01612345678", true},
		{"01912345678", true},
		{"02012345678", false},
		{"01212345678", false},
		{"010123456", false},
		{"010123456789", false},
		{"", false},
		{"phone", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidPhone(tt.input))
		})
	}
}

func TestPhone(t *testing.T) {
	m, err := Phone("010-1234-5678")
	require.NoError(t, err)
	assert.Equal(t, model.Membership{Method: model.MembershipPhone, Identifier: "01012345678"}, m)

	_, err = Phone("02012345678")
	assert.ErrorIs(t, err, model.ErrInvalidPhone)
}

func TestBarcode(t *testing.T) {
	m, ok := Barcode(" 9350001 ")
	require.True(t, ok)
	assert.Equal(t, "BAR:9350001", m.Identifier)
	assert.Equal(t, model.MembershipBarcode, m.Method)

	_, ok = Barcode("  ")
	assert.False(t, ok)
}

func TestFixedIdentifiers(t *testing.T) {
	assert.Equal(t, "CARD-SENSE", Sensed().Identifier)
	assert.Equal(t, "COBRANDED-CC", CoBrandedCard().Identifier)
	assert.False(t, Sensed().IsZero())
}
