package repository

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spendsapp/receipt-service/internal/domain"
)

// timestampLayout is the canonical textual form for stored timestamps.
// RFC 3339 with nanoseconds keeps the encode/decode pair lossless.
const timestampLayout = time.RFC3339Nano

// sortDateLayout is the fixed-width form used for the user index sort key.
// Zero-padded nanoseconds keep lexicographic string order equal to time
// order, which is what DynamoDB sorts by.
const sortDateLayout = "2006-01-02T15:04:05.000000000Z07:00"

// receiptRecord is the document-store shape of a receipt. Monetary values are
// serialized as strings because DynamoDB has no fixed-point numeric type.
// SortDate is always present: the user GSI is sparse, so a receipt without
// its sort-key attribute would vanish from user listings.
type receiptRecord struct {
	ReceiptID    string       `dynamodbav:"receipt_id" json:"receipt_id"`
	UserID       string       `dynamodbav:"user_id" json:"user_id"`
	PurchaseDate string       `dynamodbav:"purchase_date,omitempty" json:"purchase_date,omitempty"`
	SortDate     string       `dynamodbav:"sort_date" json:"sort_date"`
	TotalAmount  string       `dynamodbav:"total_amount" json:"total_amount"`
	Items        []itemRecord `dynamodbav:"items" json:"items"`
	ImageURL     string       `dynamodbav:"image_url" json:"image_url"`
	Status       string       `dynamodbav:"status" json:"status"`
	CreatedAt    string       `dynamodbav:"created_at" json:"created_at"`
	UpdatedAt    string       `dynamodbav:"updated_at" json:"updated_at"`
}

// itemRecord is the stored form of one line item
type itemRecord struct {
	Name     string `dynamodbav:"name" json:"name"`
	Price    string `dynamodbav:"price" json:"price"`
	Quantity int    `dynamodbav:"quantity" json:"quantity"`
	Category string `dynamodbav:"category" json:"category"`
}

// toRecord converts a receipt entity to its stored representation
func toRecord(receipt *domain.Receipt) receiptRecord {
	record := receiptRecord{
		ReceiptID:   receipt.ReceiptID,
		UserID:      receipt.UserID,
		SortDate:    receipt.CreatedAt.Format(sortDateLayout),
		TotalAmount: receipt.TotalAmount.String(),
		Items:       make([]itemRecord, 0, len(receipt.Items)),
		ImageURL:    receipt.ImageURL,
		Status:      string(receipt.Status),
		CreatedAt:   receipt.CreatedAt.Format(timestampLayout),
		UpdatedAt:   receipt.UpdatedAt.Format(timestampLayout),
	}
	if !receipt.PurchaseDate.IsZero() {
		record.PurchaseDate = receipt.PurchaseDate.Format(timestampLayout)
		record.SortDate = receipt.PurchaseDate.Format(sortDateLayout)
	}
	for _, item := range receipt.Items {
		record.Items = append(record.Items, itemRecord{
			Name:     item.Name,
			Price:    item.Price.String(),
			Quantity: item.Quantity,
			Category: item.Category,
		})
	}
	return record
}

// fromRecord converts a stored representation back into a receipt entity
func fromRecord(record receiptRecord) (*domain.Receipt, error) {
	total, err := decimal.NewFromString(record.TotalAmount)
	if err != nil {
		return nil, fmt.Errorf("failed to parse total amount: %w", err)
	}

	status, err := domain.ParseStatus(record.Status)
	if err != nil {
		return nil, err
	}

	createdAt, err := time.Parse(timestampLayout, record.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}
	updatedAt, err := time.Parse(timestampLayout, record.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse updated_at: %w", err)
	}

	receipt := &domain.Receipt{
		ReceiptID:   record.ReceiptID,
		UserID:      record.UserID,
		TotalAmount: total,
		Items:       make([]domain.ReceiptItem, 0, len(record.Items)),
		ImageURL:    record.ImageURL,
		Status:      status,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}

	if record.PurchaseDate != "" {
		purchaseDate, err := time.Parse(timestampLayout, record.PurchaseDate)
		if err != nil {
			return nil, fmt.Errorf("failed to parse purchase_date: %w", err)
		}
		receipt.PurchaseDate = purchaseDate
	}

	for _, item := range record.Items {
		price, err := decimal.NewFromString(item.Price)
		if err != nil {
			return nil, fmt.Errorf("failed to parse item price: %w", err)
		}
		receipt.Items = append(receipt.Items, domain.ReceiptItem{
			Name:     item.Name,
			Price:    price,
			Quantity: item.Quantity,
			Category: item.Category,
		})
	}

	return receipt, nil
}
