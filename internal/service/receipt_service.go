package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/spendsapp/receipt-service/internal/domain"
	"github.com/spendsapp/receipt-service/internal/imageutil"
	"github.com/spendsapp/receipt-service/internal/repository"
)

// ReceiptServiceError represents an error in the receipt service
type ReceiptServiceError struct {
	Op  string
	Err error
}

func (e *ReceiptServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return e.Op
}

// Unwrap returns the underlying error
func (e *ReceiptServiceError) Unwrap() error {
	return e.Err
}

// UploadError reports a failed extraction. It carries the receipt identifier
// so the caller can reference the stored FAILED receipt for retry or support.
type UploadError struct {
	ReceiptID string
	Err       error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("processing failed for receipt %s: %v", e.ReceiptID, e.Err)
}

// Unwrap returns the underlying error
func (e *UploadError) Unwrap() error {
	return e.Err
}

// Extractor turns a stored receipt image into structured data
type Extractor interface {
	ExtractReceiptData(ctx context.Context, imageURL string) (*domain.ExtractionResult, error)
}

// ImageUploader stores a receipt photo and returns its resolvable URL
type ImageUploader interface {
	UploadImage(imageData []byte, filename string) (string, error)
}

// ReceiptService defines the interface for receipt-related business logic
type ReceiptService interface {
	// Upload workflow
	UploadReceipt(ctx context.Context, imageData []byte, userID string) (*domain.Receipt, error)
	ReprocessReceipt(ctx context.Context, receiptID string) (*domain.Receipt, error)

	// CRUD operations
	GetReceiptByID(ctx context.Context, receiptID string) (*domain.Receipt, error)
	ListUserReceipts(ctx context.Context, userID string, limit int) ([]domain.Receipt, error)
	UpdateReceipt(ctx context.Context, receiptID string, patch domain.ReceiptPatch) (*domain.Receipt, error)
	DeleteReceipt(ctx context.Context, receiptID string) (bool, error)
	GetReceiptSummary(ctx context.Context, receiptID string) (*domain.ReceiptSummary, error)
}

// ReceiptServiceImpl implements the ReceiptService interface
type ReceiptServiceImpl struct {
	repository repository.ReceiptRepository
	extractor  Extractor
	uploader   ImageUploader
	workerPool chan struct{}
}

// NewReceiptService creates a new ReceiptService. All collaborators are
// injected; the service holds no hidden global state.
func NewReceiptService(repo repository.ReceiptRepository, extractor Extractor, uploader ImageUploader, maxWorkers int) ReceiptService {
	if maxWorkers <= 0 {
		maxWorkers = 1
	}
	return &ReceiptServiceImpl{
		repository: repo,
		extractor:  extractor,
		uploader:   uploader,
		workerPool: make(chan struct{}, maxWorkers),
	}
}

// UploadReceipt runs the full upload workflow: store the image, persist a
// PENDING receipt, then drive it through PROCESSING to COMPLETED or FAILED.
// A failure before the PENDING persist aborts with no user-visible state.
func (s *ReceiptServiceImpl) UploadReceipt(ctx context.Context, imageData []byte, userID string) (*domain.Receipt, error) {
	// Acquire worker from pool
	select {
	case s.workerPool <- struct{}{}:
		defer func() {
			<-s.workerPool
		}()
	case <-ctx.Done():
		return nil, &ReceiptServiceError{
			Op:  "acquire_worker",
			Err: ctx.Err(),
		}
	}

	// Downscale before upload; phone photos are oversized for the vision
	// model. A decode failure falls back to the original bytes.
	resized, err := imageutil.DownscaleReceipt(imageData)
	if err != nil {
		log.Printf("could not downscale receipt image, using original: %v", err)
		resized = imageData
	}

	filename := fmt.Sprintf("receipt_%d.jpg", time.Now().UnixNano())
	imageURL, err := s.uploader.UploadImage(resized, filename)
	if err != nil {
		return nil, &ReceiptServiceError{
			Op:  "upload_image",
			Err: err,
		}
	}

	receipt := domain.NewReceipt(userID, imageURL)
	if _, err := s.repository.Save(ctx, receipt); err != nil {
		return nil, &ReceiptServiceError{
			Op:  "create_receipt",
			Err: err,
		}
	}

	return s.process(ctx, receipt.ReceiptID, imageURL)
}

// ReprocessReceipt moves a FAILED receipt back to PENDING and runs the
// extraction pipeline again. Intended for operator-triggered retries.
func (s *ReceiptServiceImpl) ReprocessReceipt(ctx context.Context, receiptID string) (*domain.Receipt, error) {
	pending := domain.StatusPending
	receipt, err := s.repository.Update(ctx, receiptID, domain.ReceiptPatch{Status: &pending})
	if err != nil {
		return nil, &ReceiptServiceError{
			Op:  "reset_receipt",
			Err: err,
		}
	}

	return s.process(ctx, receipt.ReceiptID, receipt.ImageURL)
}

// process drives one receipt from PENDING through PROCESSING to its terminal
// status. Extraction failures of any kind end in FAILED; storage failures
// propagate as-is.
func (s *ReceiptServiceImpl) process(ctx context.Context, receiptID, imageURL string) (*domain.Receipt, error) {
	processing := domain.StatusProcessing
	if _, err := s.repository.Update(ctx, receiptID, domain.ReceiptPatch{Status: &processing}); err != nil {
		return nil, &ReceiptServiceError{
			Op:  "mark_processing",
			Err: err,
		}
	}

	result, err := s.extractor.ExtractReceiptData(ctx, imageURL)
	if err != nil {
		log.Printf("extraction failed for receipt %s: %v", receiptID, err)
		s.markFailed(ctx, receiptID)
		return nil, &UploadError{ReceiptID: receiptID, Err: err}
	}

	total := result.Total
	if total.IsZero() && len(result.Items) > 0 {
		// The model omitted the total; recompute it from the items
		scratch := domain.Receipt{Items: result.Items}
		total = scratch.CalculateTotal()
	}

	completed := domain.StatusCompleted
	patch := domain.ReceiptPatch{
		Items:       &result.Items,
		TotalAmount: &total,
		Status:      &completed,
	}
	if !result.PurchaseDate.IsZero() {
		patch.PurchaseDate = &result.PurchaseDate
	}

	updated, err := s.repository.Update(ctx, receiptID, patch)
	if err != nil {
		return nil, &ReceiptServiceError{
			Op:  "store_extraction",
			Err: err,
		}
	}

	return updated, nil
}

// markFailed records the FAILED status so the receipt never stays stuck in
// PROCESSING. A storage failure here is logged but not propagated; the
// extraction error is the one the caller needs.
func (s *ReceiptServiceImpl) markFailed(ctx context.Context, receiptID string) {
	failed := domain.StatusFailed
	if _, err := s.repository.Update(ctx, receiptID, domain.ReceiptPatch{Status: &failed}); err != nil {
		log.Printf("failed to mark receipt %s as failed: %v", receiptID, err)
	}
}

// GetReceiptByID retrieves a receipt by ID
func (s *ReceiptServiceImpl) GetReceiptByID(ctx context.Context, receiptID string) (*domain.Receipt, error) {
	return s.repository.FindByID(ctx, receiptID)
}

// ListUserReceipts retrieves a user's receipts newest-first
func (s *ReceiptServiceImpl) ListUserReceipts(ctx context.Context, userID string, limit int) ([]domain.Receipt, error) {
	receipts, err := s.repository.FindByUserID(ctx, userID, limit)
	if err != nil {
		return nil, &ReceiptServiceError{
			Op:  "list_receipts",
			Err: err,
		}
	}
	return receipts, nil
}

// UpdateReceipt applies a patch to an existing receipt
func (s *ReceiptServiceImpl) UpdateReceipt(ctx context.Context, receiptID string, patch domain.ReceiptPatch) (*domain.Receipt, error) {
	return s.repository.Update(ctx, receiptID, patch)
}

// DeleteReceipt deletes a receipt and its items
func (s *ReceiptServiceImpl) DeleteReceipt(ctx context.Context, receiptID string) (bool, error) {
	existed, err := s.repository.Delete(ctx, receiptID)
	if err != nil {
		return false, &ReceiptServiceError{
			Op:  "delete_receipt",
			Err: err,
		}
	}
	return existed, nil
}

// GetReceiptSummary returns the read-only projection of one receipt
func (s *ReceiptServiceImpl) GetReceiptSummary(ctx context.Context, receiptID string) (*domain.ReceiptSummary, error) {
	receipt, err := s.repository.FindByID(ctx, receiptID)
	if err != nil {
		return nil, err
	}
	summary := receipt.Summary()
	return &summary, nil
}
