package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// UnknownVendor is used when no vendor line matches.
const UnknownVendor = "Unknown"

// ReceiptGuess is the (vendor, amount, date) triple read from receipt text.
type ReceiptGuess struct {
	Vendor      string          `json:"vendor"`
	Amount      decimal.Decimal `json:"amount"`
	Date        time.Time       `json:"date"`
	RawDate     string          `json:"rawDate,omitempty"`
	AmountFound bool            `json:"amountFound"`
	DateFound   bool            `json:"dateFound"`
}

// ReceiptScan is a parsed receipt and the expense recorded from it.
type ReceiptScan struct {
	Guess   ReceiptGuess `json:"guess"`
	Expense Expense      `json:"expense"`
}
