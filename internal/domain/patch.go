package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReceiptPatch enumerates the mutable receipt fields. Nil fields are left
// untouched. The identifier, owner, image URL and creation timestamp are
// deliberately not representable here.
type ReceiptPatch struct {
	PurchaseDate *time.Time       `json:"purchase_date,omitempty"`
	TotalAmount  *decimal.Decimal `json:"total_amount,omitempty"`
	Items        *[]ReceiptItem   `json:"items,omitempty"`
	Status       *Status          `json:"status,omitempty"`
}

// IsEmpty reports whether the patch changes nothing
func (p ReceiptPatch) IsEmpty() bool {
	return p.PurchaseDate == nil && p.TotalAmount == nil && p.Items == nil && p.Status == nil
}

// ApplyPatch applies the set fields of the patch and refreshes the
// last-modified timestamp. Status changes go through the transition table;
// an invalid transition leaves the receipt unmodified.
func (r *Receipt) ApplyPatch(patch ReceiptPatch) error {
	if patch.Status != nil && !r.Status.CanTransitionTo(*patch.Status) {
		return &TransitionError{From: r.Status, To: *patch.Status}
	}

	if patch.PurchaseDate != nil {
		r.PurchaseDate = *patch.PurchaseDate
	}
	if patch.TotalAmount != nil {
		r.TotalAmount = *patch.TotalAmount
	}
	if patch.Items != nil {
		items := make([]ReceiptItem, len(*patch.Items))
		for i, item := range *patch.Items {
			items[i] = NewReceiptItem(item.Name, item.Price, item.Quantity, item.Category)
		}
		r.Items = items
	}
	if patch.Status != nil {
		r.Status = *patch.Status
	}

	r.touch()
	return nil
}

// touch refreshes the last-modified timestamp
func (r *Receipt) touch() {
	r.UpdatedAt = time.Now().UTC()
}
