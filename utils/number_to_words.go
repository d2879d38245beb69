package utils

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

var ones = []string{
	"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine",
	"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen",
	"Sixteen", "Seventeen", "Eighteen", "Nineteen",
}

var tens = []string{
	"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety",
}

// Indian numbering groups, largest first.
var scales = []struct {
	value int
	name  string
}{
	{10000000, "Crore"},
	{100000, "Lakh"},
	{1000, "Thousand"},
	{100, "Hundred"},
}

// NumberToWords spells a non-negative integer using lakh/crore grouping.
// Zero yields an empty string.
func NumberToWords(num int) string {
	if num <= 0 {
		return ""
	}
	var words []string
	for _, s := range scales {
		if num >= s.value {
			words = append(words, NumberToWords(num/s.value), s.name)
			num %= s.value
		}
	}
	switch {
	case num >= 20:
		words = append(words, tens[num/10], ones[num%10])
	case num > 0:
		words = append(words, ones[num])
	}
	return strings.Join(strings.Fields(strings.Join(words, " ")), " ")
}

// NumberToCurrencyWords renders an amount as "X Rupees and Y Paise Only".
func NumberToCurrencyWords(amount float64) string {
	d := decimal.NewFromFloat(math.Abs(amount)).Round(2)
	rupees := int(d.IntPart())
	paise := int(d.Sub(decimal.NewFromInt(int64(rupees))).Mul(decimal.NewFromInt(100)).IntPart())

	var parts []string
	if rupees > 0 {
		parts = append(parts, NumberToWords(rupees)+" Rupees")
	}
	if paise > 0 {
		parts = append(parts, NumberToWords(paise)+" Paise")
	}
	if len(parts) == 0 {
		return "Zero Rupees Only"
	}
	return strings.Join(parts, " and ") + " Only"
}
