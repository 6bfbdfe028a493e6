package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultCategory is assigned to items that arrive without a category label.
const DefaultCategory = "other"

// ReceiptItem represents a single line item on a receipt
type ReceiptItem struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"qty"`
	Category string          `json:"category"`
}

// NewReceiptItem creates a receipt item, applying the quantity and category defaults
func NewReceiptItem(name string, price decimal.Decimal, quantity int, category string) ReceiptItem {
	if quantity <= 0 {
		quantity = 1
	}
	if category == "" {
		category = DefaultCategory
	}
	return ReceiptItem{
		Name:     name,
		Price:    price,
		Quantity: quantity,
		Category: category,
	}
}

// Subtotal returns price multiplied by quantity for this item
func (i ReceiptItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Receipt represents one purchase event and its extraction lifecycle.
// It carries business logic only; persistence lives in the repository layer.
type Receipt struct {
	ReceiptID    string          `json:"receipt_id"`
	UserID       string          `json:"user_id"`
	PurchaseDate time.Time       `json:"purchase_date"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	Items        []ReceiptItem   `json:"items"`
	ImageURL     string          `json:"image_url"`
	Status       Status          `json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// NewReceipt creates a receipt in StatusPending with a fresh identifier,
// no items and a zero total
func NewReceipt(userID, imageURL string) *Receipt {
	now := time.Now().UTC()
	return &Receipt{
		ReceiptID:   uuid.New().String(),
		UserID:      userID,
		TotalAmount: decimal.Zero,
		Items:       []ReceiptItem{},
		ImageURL:    imageURL,
		Status:      StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// AddItem appends an item to the receipt. The total is not recomputed;
// callers decide when to invoke CalculateTotal.
func (r *Receipt) AddItem(item ReceiptItem) {
	r.Items = append(r.Items, item)
}

// RemoveItem removes the first item whose name matches exactly.
// It reports whether a removal occurred.
func (r *Receipt) RemoveItem(name string) bool {
	for i, item := range r.Items {
		if item.Name == name {
			r.Items = append(r.Items[:i], r.Items[i+1:]...)
			return true
		}
	}
	return false
}

// CalculateTotal recomputes the total from the current items, stores it on
// the receipt and returns it. Calling it twice in a row is a no-op.
func (r *Receipt) CalculateTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range r.Items {
		total = total.Add(item.Subtotal())
	}
	r.TotalAmount = total
	return total
}

// IsValid reports whether the receipt carries all fields required for persistence
func (r *Receipt) IsValid() bool {
	return r.ReceiptID != "" && r.UserID != "" && r.ImageURL != ""
}

// ItemsByCategory returns the items whose category matches exactly, in receipt order
func (r *Receipt) ItemsByCategory(category string) []ReceiptItem {
	matched := []ReceiptItem{}
	for _, item := range r.Items {
		if item.Category == category {
			matched = append(matched, item)
		}
	}
	return matched
}

// ReceiptSummary is a read-only projection of a receipt
type ReceiptSummary struct {
	ReceiptID    string          `json:"receipt_id"`
	UserID       string          `json:"user_id"`
	PurchaseDate time.Time       `json:"purchase_date"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	ItemCount    int             `json:"item_count"`
	Categories   []string        `json:"categories"`
}

// Summary produces a projection with the distinct item categories in
// first-seen order
func (r *Receipt) Summary() ReceiptSummary {
	seen := make(map[string]struct{}, len(r.Items))
	categories := []string{}
	for _, item := range r.Items {
		if _, ok := seen[item.Category]; ok {
			continue
		}
		seen[item.Category] = struct{}{}
		categories = append(categories, item.Category)
	}
	return ReceiptSummary{
		ReceiptID:    r.ReceiptID,
		UserID:       r.UserID,
		PurchaseDate: r.PurchaseDate,
		TotalAmount:  r.TotalAmount,
		ItemCount:    len(r.Items),
		Categories:   categories,
	}
}
