package repository

import (
	"context"
	"fmt"

	"github.com/spendsapp/receipt-service/internal/domain"
)

// Backend selects the storage implementation at construction time
type Backend string

const (
	BackendPostgres Backend = "postgres"
	BackendDynamoDB Backend = "dynamodb"
)

// ParseBackend validates a configured backend name
func ParseBackend(s string) (Backend, error) {
	switch Backend(s) {
	case BackendPostgres, BackendDynamoDB:
		return Backend(s), nil
	}
	return "", fmt.Errorf("unknown storage backend: %q", s)
}

// ReceiptRepository defines the interface for receipt persistence.
// Lookups for a missing identifier return domain.ErrReceiptNotFound,
// never a partial entity.
type ReceiptRepository interface {
	// Save validates required fields and then inserts the receipt, or
	// overwrites it if the identifier already exists.
	Save(ctx context.Context, receipt *domain.Receipt) (*domain.Receipt, error)

	// FindByID returns the receipt with its items.
	FindByID(ctx context.Context, receiptID string) (*domain.Receipt, error)

	// FindByUserID returns the user's receipts newest-first by purchase
	// date (falling back to creation time), truncated to limit when
	// limit > 0.
	FindByUserID(ctx context.Context, userID string, limit int) ([]domain.Receipt, error)

	// Delete removes the receipt and its items and reports whether
	// anything existed.
	Delete(ctx context.Context, receiptID string) (bool, error)

	// Exists probes for the identifier without materializing the entity.
	Exists(ctx context.Context, receiptID string) (bool, error)

	// Update loads the receipt, applies the patch and persists the result.
	Update(ctx context.Context, receiptID string, patch domain.ReceiptPatch) (*domain.Receipt, error)
}

// RepositoryError represents an error from the storage layer
type RepositoryError struct {
	Op  string
	Err error
}

func (e *RepositoryError) Error() string {
	if e.Err == nil {
		return "repository error: " + e.Op
	}
	return "repository error: " + e.Op + ": " + e.Err.Error()
}

// Unwrap returns the underlying error
func (e *RepositoryError) Unwrap() error {
	return e.Err
}

// validateForSave checks the fields every backend requires before writing
func validateForSave(receipt *domain.Receipt) error {
	if receipt.ReceiptID == "" {
		return &domain.ValidationError{Field: "receipt_id", Reason: "must not be empty"}
	}
	if receipt.UserID == "" {
		return &domain.ValidationError{Field: "user_id", Reason: "must not be empty"}
	}
	if receipt.ImageURL == "" {
		return &domain.ValidationError{Field: "image_url", Reason: "must not be empty"}
	}
	return nil
}
