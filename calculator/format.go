package calculator

import (
	"math"
	"math/big"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var usPrinter = message.NewPrinter(language.AmericanEnglish)

// FormatCurrency renders amount as whole US dollars.
// e.g., 1234.5 -> "$1,235", -12.2 -> "-$12"
func FormatCurrency(amount float64) string {
	switch {
	case math.IsNaN(amount):
		return "$NaN"
	case math.IsInf(amount, 1):
		return "$∞"
	case math.IsInf(amount, -1):
		return "-$∞"
	}

	sign := ""
	if math.Signbit(amount) {
		sign = "-"
	}

	// math.Round rounds half away from zero, the same as the currency style.
	whole := math.Round(math.Abs(amount))
	return sign + "$" + usPrinter.Sprint(number.Decimal(whole, number.MaxFractionDigits(0)))
}

// FormatPercent renders value with one decimal place and a percent sign.
// e.g., 6 -> "6.0%", 12.345 -> "12.3%"
func FormatPercent(value float64) string {
	switch {
	case math.IsNaN(value):
		return "NaN%"
	case math.IsInf(value, 1):
		return "Infinity%"
	case math.IsInf(value, -1):
		return "-Infinity%"
	}
	return fixed1(value) + "%"
}

// fixed1 rounds the exact binary value of x to one decimal place, taking the
// larger magnitude on a tie. strconv rounds ties to even, so 0.25 would
// become "0.2" instead of "0.3".
func fixed1(x float64) string {
	sign := ""
	if x < 0 {
		sign = "-"
		x = -x
	}

	t := new(big.Float).SetPrec(256).SetFloat64(x)
	t.Mul(t, big.NewFloat(10))
	t.Add(t, big.NewFloat(0.5))
	n, _ := t.Int(nil)

	digits := n.String()
	if len(digits) < 2 {
		digits = "0" + digits
	}
	return sign + digits[:len(digits)-1] + "." + digits[len(digits)-1:]
}
