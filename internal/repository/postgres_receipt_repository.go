package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/spendsapp/receipt-service/internal/domain"
)

// PgxPool is the subset of pgxpool.Pool the repository needs. Declared as an
// interface so tests can substitute a mock pool.
type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// PostgresReceiptRepository implements ReceiptRepository using PostgreSQL
type PostgresReceiptRepository struct {
	db PgxPool
}

// NewPostgresReceiptRepository creates a new PostgreSQL receipt repository
func NewPostgresReceiptRepository(db PgxPool) *PostgresReceiptRepository {
	return &PostgresReceiptRepository{
		db: db,
	}
}

// Save inserts the receipt or overwrites an existing row with the same
// identifier. Line items are replaced wholesale inside one transaction.
func (r *PostgresReceiptRepository) Save(ctx context.Context, receipt *domain.Receipt) (*domain.Receipt, error) {
	if err := validateForSave(receipt); err != nil {
		return nil, err
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) // Rollback if not committed

	var purchaseDate any
	if !receipt.PurchaseDate.IsZero() {
		purchaseDate = receipt.PurchaseDate
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO receipts (receipt_id, user_id, purchase_date, total_amount, image_url, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4::numeric, $5, $6, $7, $8)
		ON CONFLICT (receipt_id) DO UPDATE SET
			user_id = EXCLUDED.user_id,
			purchase_date = EXCLUDED.purchase_date,
			total_amount = EXCLUDED.total_amount,
			image_url = EXCLUDED.image_url,
			status = EXCLUDED.status,
			updated_at = EXCLUDED.updated_at
	`, receipt.ReceiptID, receipt.UserID, purchaseDate, receipt.TotalAmount.String(),
		receipt.ImageURL, string(receipt.Status), receipt.CreatedAt, receipt.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert receipt: %w", err)
	}

	_, err = tx.Exec(ctx, `DELETE FROM receipt_items WHERE receipt_id = $1`, receipt.ReceiptID)
	if err != nil {
		return nil, fmt.Errorf("failed to delete receipt items: %w", err)
	}

	for _, item := range receipt.Items {
		_, err = tx.Exec(ctx, `
			INSERT INTO receipt_items (receipt_id, name, price, quantity, category)
			VALUES ($1, $2, $3::numeric, $4, $5)
		`, receipt.ReceiptID, item.Name, item.Price.String(), item.Quantity, item.Category)
		if err != nil {
			return nil, fmt.Errorf("failed to insert receipt item: %w", err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return receipt, nil
}

// FindByID retrieves a receipt and its items by identifier
func (r *PostgresReceiptRepository) FindByID(ctx context.Context, receiptID string) (*domain.Receipt, error) {
	var (
		receipt      domain.Receipt
		purchaseDate *time.Time
		totalAmount  string
		status       string
	)

	err := r.db.QueryRow(ctx, `
		SELECT receipt_id, user_id, purchase_date, total_amount::text, image_url, status, created_at, updated_at
		FROM receipts
		WHERE receipt_id = $1
	`, receiptID).Scan(
		&receipt.ReceiptID, &receipt.UserID, &purchaseDate, &totalAmount,
		&receipt.ImageURL, &status, &receipt.CreatedAt, &receipt.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrReceiptNotFound
		}
		return nil, fmt.Errorf("failed to get receipt: %w", err)
	}

	if err := hydrateReceipt(&receipt, purchaseDate, totalAmount, status); err != nil {
		return nil, err
	}

	items, err := r.queryItems(ctx, receiptID)
	if err != nil {
		return nil, err
	}
	receipt.Items = items

	return &receipt, nil
}

// FindByUserID retrieves a user's receipts newest-first. A limit of zero or
// below means no truncation.
func (r *PostgresReceiptRepository) FindByUserID(ctx context.Context, userID string, limit int) ([]domain.Receipt, error) {
	query := `
		SELECT receipt_id, user_id, purchase_date, total_amount::text, image_url, status, created_at, updated_at
		FROM receipts
		WHERE user_id = $1
		ORDER BY COALESCE(purchase_date, created_at) DESC
	`
	args := []any{userID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query receipts: %w", err)
	}
	defer rows.Close()

	receipts := []domain.Receipt{}
	receiptIndex := map[string]int{}
	var receiptIDs []string

	for rows.Next() {
		var (
			receipt      domain.Receipt
			purchaseDate *time.Time
			totalAmount  string
			status       string
		)
		if err := rows.Scan(
			&receipt.ReceiptID, &receipt.UserID, &purchaseDate, &totalAmount,
			&receipt.ImageURL, &status, &receipt.CreatedAt, &receipt.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan receipt: %w", err)
		}
		if err := hydrateReceipt(&receipt, purchaseDate, totalAmount, status); err != nil {
			return nil, err
		}
		receipt.Items = []domain.ReceiptItem{}
		receiptIndex[receipt.ReceiptID] = len(receipts)
		receiptIDs = append(receiptIDs, receipt.ReceiptID)
		receipts = append(receipts, receipt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating receipts: %w", err)
	}

	if len(receiptIDs) == 0 {
		return receipts, nil
	}

	// Fetch items for all receipts in a single query
	placeholders := make([]string, len(receiptIDs))
	itemArgs := make([]any, len(receiptIDs))
	for i, id := range receiptIDs {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		itemArgs[i] = id
	}

	itemQuery := fmt.Sprintf(`
		SELECT receipt_id, name, price::text, quantity, category
		FROM receipt_items
		WHERE receipt_id IN (%s)
		ORDER BY item_id
	`, strings.Join(placeholders, ", "))

	itemRows, err := r.db.Query(ctx, itemQuery, itemArgs...)
	if err != nil {
		return nil, fmt.Errorf("failed to query receipt items: %w", err)
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var (
			receiptID string
			item      domain.ReceiptItem
			price     string
		)
		if err := itemRows.Scan(&receiptID, &item.Name, &price, &item.Quantity, &item.Category); err != nil {
			return nil, fmt.Errorf("failed to scan receipt item: %w", err)
		}
		if item.Price, err = decimal.NewFromString(price); err != nil {
			return nil, fmt.Errorf("failed to parse item price: %w", err)
		}
		if idx, ok := receiptIndex[receiptID]; ok {
			receipts[idx].Items = append(receipts[idx].Items, item)
		}
	}
	if err := itemRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating receipt items: %w", err)
	}

	return receipts, nil
}

// Delete removes the receipt; items cascade via the foreign key
func (r *PostgresReceiptRepository) Delete(ctx context.Context, receiptID string) (bool, error) {
	commandTag, err := r.db.Exec(ctx, `DELETE FROM receipts WHERE receipt_id = $1`, receiptID)
	if err != nil {
		return false, fmt.Errorf("failed to delete receipt: %w", err)
	}
	return commandTag.RowsAffected() > 0, nil
}

// Exists checks for the identifier without loading the row
func (r *PostgresReceiptRepository) Exists(ctx context.Context, receiptID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM receipts WHERE receipt_id = $1)`, receiptID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check receipt existence: %w", err)
	}
	return exists, nil
}

// Update loads the receipt, applies the patch and persists the result.
// Last write wins; there is no optimistic-concurrency check.
func (r *PostgresReceiptRepository) Update(ctx context.Context, receiptID string, patch domain.ReceiptPatch) (*domain.Receipt, error) {
	receipt, err := r.FindByID(ctx, receiptID)
	if err != nil {
		return nil, err
	}
	if err := receipt.ApplyPatch(patch); err != nil {
		return nil, err
	}
	return r.Save(ctx, receipt)
}

// queryItems loads the ordered item list for one receipt
func (r *PostgresReceiptRepository) queryItems(ctx context.Context, receiptID string) ([]domain.ReceiptItem, error) {
	rows, err := r.db.Query(ctx, `
		SELECT name, price::text, quantity, category
		FROM receipt_items
		WHERE receipt_id = $1
		ORDER BY item_id
	`, receiptID)
	if err != nil {
		return nil, fmt.Errorf("failed to query receipt items: %w", err)
	}
	defer rows.Close()

	items := []domain.ReceiptItem{}
	for rows.Next() {
		var (
			item  domain.ReceiptItem
			price string
		)
		if err := rows.Scan(&item.Name, &price, &item.Quantity, &item.Category); err != nil {
			return nil, fmt.Errorf("failed to scan receipt item: %w", err)
		}
		if item.Price, err = decimal.NewFromString(price); err != nil {
			return nil, fmt.Errorf("failed to parse item price: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating receipt items: %w", err)
	}

	return items, nil
}

// hydrateReceipt fills the fields that need decoding from their stored form
func hydrateReceipt(receipt *domain.Receipt, purchaseDate *time.Time, totalAmount, status string) error {
	if purchaseDate != nil {
		receipt.PurchaseDate = *purchaseDate
	}

	total, err := decimal.NewFromString(totalAmount)
	if err != nil {
		return fmt.Errorf("failed to parse total amount: %w", err)
	}
	receipt.TotalAmount = total

	parsed, err := domain.ParseStatus(status)
	if err != nil {
		return err
	}
	receipt.Status = parsed

	return nil
}
