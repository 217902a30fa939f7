package exporter

import (
	"strconv"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// printer groups thousands the way the report's readers expect
var printer = message.NewPrinter(language.AmericanEnglish)

// formatScore keeps enough precision for statistics and model weights
func formatScore(f float64) string {
	return strconv.FormatFloat(f, 'g', 6, 64)
}

// formatInt formats an int value for CSV output
func formatInt(i int) string {
	return strconv.Itoa(i)
}

// formatBool formats a boolean value for CSV output
func formatBool(b bool) string {
	return strconv.FormatBool(b)
}

// formatPercent renders a 0..1 rate as a percentage with two decimals
func formatPercent(rate float64) string {
	return printer.Sprintf("%.2f%%", rate*100)
}

// formatMoney renders an amount in dollars with thousands separators
func formatMoney(d decimal.Decimal) string {
	f := d.Round(2).InexactFloat64()
	if f < 0 {
		return printer.Sprintf("-$%.2f", -f)
	}
	return printer.Sprintf("$%.2f", f)
}

// formatCount renders a count with thousands separators
func formatCount(n int) string {
	return printer.Sprintf("%d", n)
}
