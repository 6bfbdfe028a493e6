package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExtractionResult is the structured payload the vision API derives from a
// receipt image
type ExtractionResult struct {
	Items        []ReceiptItem   `json:"items"`
	Total        decimal.Decimal `json:"total"`
	PurchaseDate time.Time       `json:"purchase_date"`
}
