package currency

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRound2(t *testing.T) {
	assert.Equal(t, 45.0, Round2(45))
	assert.Equal(t, 24.99, Round2(24.989))
	assert.Equal(t, 12.35, Round2(12.349999))
	assert.Equal(t, -3.5, Round2(-3.499))
}

func TestFormatEUR(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{0, "€0.00"},
		{45, "€45.00"},
		{24.99, "€24.99"},
		{1234.5, "€1,234.50"},
		{1234567.891, "€1,234,567.89"},
		{-15, "-€15.00"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatEUR(tt.amount))
		})
	}
}
