package ocr

import (
	"regexp"
	"strings"
	"time"

	"github.com/SscSPs/pocket_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

var (
	amountPattern = regexp.MustCompile(`(?i)(?:total|amount|rs\.?)\s*[:₹$]?\s*(\d+(?:\.\d{2})?)`)
	datePattern   = regexp.MustCompile(`(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})`)
	vendorPattern = regexp.MustCompile(`(?i)(.+?)\s*(?:restaurant|store|mart|shop|pvt|ltd)`)
)

// Day-first layouts; separators are normalised to "/" before parsing.
var dateLayouts = []string{"2/1/2006", "2/1/06"}

// ParseReceipt guesses vendor, amount and date from OCR text.
// Missing values fall back to amount 0, vendor "Unknown" and today.
func ParseReceipt(text string, today time.Time) domain.ReceiptGuess {
	guess := domain.ReceiptGuess{
		Vendor: domain.UnknownVendor,
		Amount: decimal.Zero,
		Date:   domain.Today(today),
	}

	if m := amountPattern.FindStringSubmatch(text); m != nil {
		if amount, err := decimal.NewFromString(m[1]); err == nil {
			guess.Amount = amount
			guess.AmountFound = true
		}
	}

	if m := datePattern.FindStringSubmatch(text); m != nil {
		guess.RawDate = m[1]
		if d, ok := parseDayFirst(m[1]); ok {
			guess.Date = d
			guess.DateFound = true
		}
	}

	if m := vendorPattern.FindStringSubmatch(text); m != nil {
		if vendor := strings.TrimSpace(m[1]); vendor != "" {
			guess.Vendor = vendor
		}
	}

	return guess
}

func parseDayFirst(raw string) (time.Time, bool) {
	normalised := strings.ReplaceAll(raw, "-", "/")
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, normalised); err == nil {
			return d, true
		}
	}
	return time.Time{}, false
}
