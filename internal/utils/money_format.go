package utils

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// AmountPrecision is the number of decimal places amounts are displayed with.
const AmountPrecision = 2

var moneyPrinter = message.NewPrinter(language.English)

// FormatWithPrecision formats an amount with the given precision
func FormatWithPrecision(amount decimal.Decimal, precision int) string {
	return amount.StringFixed(int32(precision))
}

// FormatAmount formats an amount with two decimal places, e.g. "120.50".
func FormatAmount(amount decimal.Decimal) string {
	return FormatWithPrecision(amount, AmountPrecision)
}

// FormatMoney renders an amount for people: "₹1,234.50".
func FormatMoney(symbol string, amount decimal.Decimal) string {
	f, _ := amount.Round(AmountPrecision).Float64()
	return symbol + moneyPrinter.Sprintf("%.2f", f)
}

// ParseAmount parses a user supplied amount. Negative values are rejected.
func ParseAmount(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, fmt.Errorf("amount is required")
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("amount %q is not a number", raw)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("amount %q must not be negative", raw)
	}
	return d, nil
}
