package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestNewReceipt(t *testing.T) {
	receipt := NewReceipt("user-1", "https://example.com/r.jpg")

	assert.NotEmpty(t, receipt.ReceiptID)
	assert.Equal(t, "user-1", receipt.UserID)
	assert.Equal(t, StatusPending, receipt.Status)
	assert.True(t, receipt.TotalAmount.IsZero())
	assert.Empty(t, receipt.Items)
	assert.False(t, receipt.CreatedAt.IsZero())
	assert.Equal(t, receipt.CreatedAt, receipt.UpdatedAt)
	assert.True(t, receipt.IsValid())
}

func TestNewReceipt_DistinctIdentifiers(t *testing.T) {
	a := NewReceipt("user-1", "https://example.com/a.jpg")
	b := NewReceipt("user-1", "https://example.com/b.jpg")
	assert.NotEqual(t, a.ReceiptID, b.ReceiptID)
}

func TestNewReceiptItem_Defaults(t *testing.T) {
	item := NewReceiptItem("Coffee", dec("4.50"), 0, "")
	assert.Equal(t, 1, item.Quantity)
	assert.Equal(t, DefaultCategory, item.Category)

	item = NewReceiptItem("Coffee", dec("4.50"), -3, "beverage")
	assert.Equal(t, 1, item.Quantity)
	assert.Equal(t, "beverage", item.Category)
}

func TestReceiptItem_Subtotal(t *testing.T) {
	item := NewReceiptItem("Coffee", dec("4.50"), 2, "beverage")
	assert.True(t, item.Subtotal().Equal(dec("9.00")))
}

func TestCalculateTotal(t *testing.T) {
	receipt := NewReceipt("user-1", "https://example.com/r.jpg")
	receipt.AddItem(NewReceiptItem("Coffee", dec("4.50"), 2, "beverage"))
	receipt.AddItem(NewReceiptItem("Muffin", dec("3.00"), 1, "bakery"))

	total := receipt.CalculateTotal()
	assert.True(t, total.Equal(dec("12.00")), "expected 12.00, got %s", total)
	assert.True(t, receipt.TotalAmount.Equal(dec("12.00")))

	// Recomputing changes nothing
	assert.True(t, receipt.CalculateTotal().Equal(dec("12.00")))
}

func TestCalculateTotal_NoItems(t *testing.T) {
	receipt := NewReceipt("user-1", "https://example.com/r.jpg")
	assert.True(t, receipt.CalculateTotal().IsZero())
}

func TestAddItem_DoesNotRecomputeTotal(t *testing.T) {
	receipt := NewReceipt("user-1", "https://example.com/r.jpg")
	receipt.AddItem(NewReceiptItem("Coffee", dec("4.50"), 2, "beverage"))
	assert.True(t, receipt.TotalAmount.IsZero())
}

func TestRemoveItem(t *testing.T) {
	receipt := NewReceipt("user-1", "https://example.com/r.jpg")
	receipt.AddItem(NewReceiptItem("Coffee", dec("4.50"), 1, "beverage"))
	receipt.AddItem(NewReceiptItem("Coffee", dec("5.00"), 1, "beverage"))
	receipt.AddItem(NewReceiptItem("Muffin", dec("3.00"), 1, "bakery"))

	// Only the first exact match goes
	assert.True(t, receipt.RemoveItem("Coffee"))
	require.Len(t, receipt.Items, 2)
	assert.True(t, receipt.Items[0].Price.Equal(dec("5.00")))

	assert.False(t, receipt.RemoveItem("Tea"))
	assert.Len(t, receipt.Items, 2)
}

func TestIsValid(t *testing.T) {
	receipt := NewReceipt("user-1", "https://example.com/r.jpg")
	assert.True(t, receipt.IsValid())

	receipt.UserID = ""
	assert.False(t, receipt.IsValid())

	receipt = NewReceipt("user-1", "")
	assert.False(t, receipt.IsValid())
}

func TestItemsByCategory(t *testing.T) {
	receipt := NewReceipt("user-1", "https://example.com/r.jpg")
	receipt.AddItem(NewReceiptItem("Coffee", dec("4.50"), 1, "beverage"))
	receipt.AddItem(NewReceiptItem("Muffin", dec("3.00"), 1, "bakery"))
	receipt.AddItem(NewReceiptItem("Tea", dec("2.50"), 1, "beverage"))

	beverages := receipt.ItemsByCategory("beverage")
	require.Len(t, beverages, 2)
	assert.Equal(t, "Coffee", beverages[0].Name)
	assert.Equal(t, "Tea", beverages[1].Name)

	assert.Empty(t, receipt.ItemsByCategory("Beverage"))
}

func TestSummary(t *testing.T) {
	receipt := NewReceipt("user-1", "https://example.com/r.jpg")
	receipt.AddItem(NewReceiptItem("Coffee", dec("4.50"), 2, "beverage"))
	receipt.AddItem(NewReceiptItem("Muffin", dec("3.00"), 1, "bakery"))
	receipt.AddItem(NewReceiptItem("Tea", dec("2.50"), 1, "beverage"))
	receipt.CalculateTotal()

	summary := receipt.Summary()
	assert.Equal(t, receipt.ReceiptID, summary.ReceiptID)
	assert.Equal(t, "user-1", summary.UserID)
	assert.Equal(t, 3, summary.ItemCount)
	assert.True(t, summary.TotalAmount.Equal(dec("14.50")))
	// Distinct categories, first-seen order
	assert.Equal(t, []string{"beverage", "bakery"}, summary.Categories)
}

func TestSummary_NoItems(t *testing.T) {
	receipt := NewReceipt("user-1", "https://example.com/r.jpg")
	summary := receipt.Summary()
	assert.Equal(t, 0, summary.ItemCount)
	assert.Empty(t, summary.Categories)
}

func TestParseStatus(t *testing.T) {
	status, err := ParseStatus("pending")
	require.NoError(t, err)
	assert.Equal(t, StatusPending, status)

	_, err = ParseStatus("archived")
	assert.Error(t, err)

	_, err = ParseStatus("")
	assert.Error(t, err)
}

func TestStatusTransitions(t *testing.T) {
	cases := []struct {
		from    Status
		to      Status
		allowed bool
	}{
		{StatusPending, StatusProcessing, true},
		{StatusProcessing, StatusCompleted, true},
		{StatusProcessing, StatusFailed, true},
		{StatusFailed, StatusPending, true},
		{StatusPending, StatusCompleted, false},
		{StatusPending, StatusFailed, false},
		{StatusCompleted, StatusPending, false},
		{StatusCompleted, StatusProcessing, false},
		{StatusCompleted, StatusFailed, false},
		{StatusFailed, StatusProcessing, false},
		{StatusFailed, StatusCompleted, false},
		{StatusProcessing, StatusPending, false},
		{StatusPending, StatusPending, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestTransitionTo(t *testing.T) {
	receipt := NewReceipt("user-1", "https://example.com/r.jpg")

	require.NoError(t, receipt.TransitionTo(StatusProcessing))
	assert.Equal(t, StatusProcessing, receipt.Status)

	err := receipt.TransitionTo(StatusPending)
	require.Error(t, err)

	var transitionErr *TransitionError
	require.True(t, errors.As(err, &transitionErr))
	assert.Equal(t, StatusProcessing, transitionErr.From)
	assert.Equal(t, StatusPending, transitionErr.To)
	// Rejected transition leaves the status untouched
	assert.Equal(t, StatusProcessing, receipt.Status)
}

func TestTransitionTo_FailedBackToPending(t *testing.T) {
	receipt := NewReceipt("user-1", "https://example.com/r.jpg")
	require.NoError(t, receipt.TransitionTo(StatusProcessing))
	require.NoError(t, receipt.TransitionTo(StatusFailed))
	require.NoError(t, receipt.TransitionTo(StatusPending))
	assert.Equal(t, StatusPending, receipt.Status)
}

func TestApplyPatch(t *testing.T) {
	receipt := NewReceipt("user-1", "https://example.com/r.jpg")
	before := receipt.UpdatedAt

	date := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	total := dec("12.00")
	items := []ReceiptItem{
		{Name: "Coffee", Price: dec("4.50"), Quantity: 2},
		{Name: "Muffin", Price: dec("3.00"), Quantity: 0, Category: "bakery"},
	}
	processing := StatusProcessing

	err := receipt.ApplyPatch(ReceiptPatch{
		PurchaseDate: &date,
		TotalAmount:  &total,
		Items:        &items,
		Status:       &processing,
	})
	require.NoError(t, err)

	assert.Equal(t, date, receipt.PurchaseDate)
	assert.True(t, receipt.TotalAmount.Equal(dec("12.00")))
	assert.Equal(t, StatusProcessing, receipt.Status)
	assert.False(t, receipt.UpdatedAt.Before(before))

	// Items go through the same defaults as direct construction
	require.Len(t, receipt.Items, 2)
	assert.Equal(t, DefaultCategory, receipt.Items[0].Category)
	assert.Equal(t, 1, receipt.Items[1].Quantity)
}

func TestApplyPatch_NilFieldsUntouched(t *testing.T) {
	receipt := NewReceipt("user-1", "https://example.com/r.jpg")
	receipt.AddItem(NewReceiptItem("Coffee", dec("4.50"), 1, "beverage"))
	receipt.CalculateTotal()

	total := dec("99.00")
	require.NoError(t, receipt.ApplyPatch(ReceiptPatch{TotalAmount: &total}))

	assert.True(t, receipt.TotalAmount.Equal(dec("99.00")))
	assert.Len(t, receipt.Items, 1)
	assert.Equal(t, StatusPending, receipt.Status)
}

func TestApplyPatch_InvalidTransitionLeavesReceiptUnmodified(t *testing.T) {
	receipt := NewReceipt("user-1", "https://example.com/r.jpg")
	before := receipt.UpdatedAt

	total := dec("50.00")
	completed := StatusCompleted
	err := receipt.ApplyPatch(ReceiptPatch{TotalAmount: &total, Status: &completed})

	var transitionErr *TransitionError
	require.True(t, errors.As(err, &transitionErr))
	assert.True(t, receipt.TotalAmount.IsZero())
	assert.Equal(t, StatusPending, receipt.Status)
	assert.Equal(t, before, receipt.UpdatedAt)
}

func TestReceiptPatch_IsEmpty(t *testing.T) {
	assert.True(t, ReceiptPatch{}.IsEmpty())

	total := dec("1.00")
	assert.False(t, ReceiptPatch{TotalAmount: &total}.IsEmpty())
}
