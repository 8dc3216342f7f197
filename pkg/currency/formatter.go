package currency

import (
	"math"
	"strconv"
	"strings"
)

// Round2 rounds an amount to cents, half away from zero.
func Round2(amount float64) float64 {
	return math.Round(amount*100) / 100
}

// FormatEUR renders an amount as "€1,234.50".
func FormatEUR(amount float64) string {
	cents := int64(math.Round(amount * 100))

	var b strings.Builder
	if cents < 0 {
		b.WriteByte('-')
		cents = -cents
	}
	b.WriteString("€")
	b.WriteString(groupThousands(strconv.FormatInt(cents/100, 10)))
	b.WriteByte('.')
	frac := strconv.FormatInt(cents%100, 10)
	if len(frac) == 1 {
		b.WriteByte('0')
	}
	b.WriteString(frac)
	return b.String()
}

func groupThousands(digits string) string {
	head := len(digits) % 3
	if head == 0 {
		head = 3
	}

	var b strings.Builder
	b.WriteString(digits[:head])
	for i := head; i < len(digits); i += 3 {
		b.WriteByte(',')
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
