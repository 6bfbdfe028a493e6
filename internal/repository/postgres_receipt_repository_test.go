package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spendsapp/receipt-service/internal/domain"
)

func newMockRepository(t *testing.T) (*PostgresReceiptRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	t.Cleanup(mock.Close)
	return NewPostgresReceiptRepository(mock), mock
}

func receiptColumns() []string {
	return []string{"receipt_id", "user_id", "purchase_date", "total_amount", "image_url", "status", "created_at", "updated_at"}
}

func testReceipt() *domain.Receipt {
	receipt := domain.NewReceipt("alice", "https://bucket.s3.us-east-1.amazonaws.com/uploads/tickets/u1.jpg")
	receipt.ReceiptID = "r-1"
	receipt.AddItem(domain.NewReceiptItem("Coffee", dec("4.50"), 2, "beverage"))
	receipt.AddItem(domain.NewReceiptItem("Muffin", dec("3.00"), 1, "bakery"))
	receipt.CalculateTotal()
	return receipt
}

func TestPostgresSave(t *testing.T) {
	repo, mock := newMockRepository(t)
	receipt := testReceipt()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO receipts").
		WithArgs(receipt.ReceiptID, receipt.UserID, nil, "12.00", receipt.ImageURL,
			"pending", receipt.CreatedAt, receipt.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("DELETE FROM receipt_items").
		WithArgs(receipt.ReceiptID).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectExec("INSERT INTO receipt_items").
		WithArgs(receipt.ReceiptID, "Coffee", "4.50", 2, "beverage").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO receipt_items").
		WithArgs(receipt.ReceiptID, "Muffin", "3.00", 1, "bakery").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	saved, err := repo.Save(context.Background(), receipt)
	require.NoError(t, err)
	assert.Equal(t, receipt.ReceiptID, saved.ReceiptID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSave_ValidationError(t *testing.T) {
	repo, mock := newMockRepository(t)

	receipt := testReceipt()
	receipt.UserID = ""

	_, err := repo.Save(context.Background(), receipt)
	require.Error(t, err)
	assert.True(t, domain.IsValidationError(err))
	// Validation fires before any storage write
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSave_RollbackOnItemFailure(t *testing.T) {
	repo, mock := newMockRepository(t)
	receipt := testReceipt()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO receipts").
		WithArgs(receipt.ReceiptID, receipt.UserID, nil, "12.00", receipt.ImageURL,
			"pending", receipt.CreatedAt, receipt.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("DELETE FROM receipt_items").
		WithArgs(receipt.ReceiptID).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectExec("INSERT INTO receipt_items").
		WithArgs(receipt.ReceiptID, "Coffee", "4.50", 2, "beverage").
		WillReturnError(errors.New("constraint violation"))
	mock.ExpectRollback()

	_, err := repo.Save(context.Background(), receipt)
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresFindByID(t *testing.T) {
	repo, mock := newMockRepository(t)

	created := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)
	purchase := time.Date(2025, 3, 13, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT receipt_id, user_id, purchase_date, total_amount").
		WithArgs("r-1").
		WillReturnRows(pgxmock.NewRows(receiptColumns()).
			AddRow("r-1", "alice", &purchase, "12.00", "https://example.com/u1.jpg", "completed", created, created))
	mock.ExpectQuery("SELECT name, price").
		WithArgs("r-1").
		WillReturnRows(pgxmock.NewRows([]string{"name", "price", "quantity", "category"}).
			AddRow("Coffee", "4.50", 2, "beverage").
			AddRow("Muffin", "3.00", 1, "bakery"))

	receipt, err := repo.FindByID(context.Background(), "r-1")
	require.NoError(t, err)

	assert.Equal(t, "alice", receipt.UserID)
	assert.Equal(t, domain.StatusCompleted, receipt.Status)
	assert.Equal(t, purchase, receipt.PurchaseDate)
	assert.True(t, receipt.TotalAmount.Equal(dec("12.00")))
	require.Len(t, receipt.Items, 2)
	assert.True(t, receipt.Items[0].Price.Equal(dec("4.50")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresFindByID_NotFound(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery("SELECT receipt_id, user_id, purchase_date, total_amount").
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrReceiptNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresFindByUserID_WithLimit(t *testing.T) {
	repo, mock := newMockRepository(t)

	created := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)
	var noPurchase *time.Time

	mock.ExpectQuery("ORDER BY COALESCE").
		WithArgs("alice", 2).
		WillReturnRows(pgxmock.NewRows(receiptColumns()).
			AddRow("r-2", "alice", noPurchase, "3.00", "https://example.com/b.jpg", "completed", created, created).
			AddRow("r-1", "alice", noPurchase, "12.00", "https://example.com/a.jpg", "failed", created, created))
	mock.ExpectQuery("FROM receipt_items").
		WithArgs("r-2", "r-1").
		WillReturnRows(pgxmock.NewRows([]string{"receipt_id", "name", "price", "quantity", "category"}).
			AddRow("r-1", "Coffee", "4.50", 2, "beverage").
			AddRow("r-2", "Muffin", "3.00", 1, "bakery"))

	receipts, err := repo.FindByUserID(context.Background(), "alice", 2)
	require.NoError(t, err)
	require.Len(t, receipts, 2)

	assert.Equal(t, "r-2", receipts[0].ReceiptID)
	require.Len(t, receipts[0].Items, 1)
	assert.Equal(t, "Muffin", receipts[0].Items[0].Name)

	assert.Equal(t, "r-1", receipts[1].ReceiptID)
	require.Len(t, receipts[1].Items, 1)
	assert.Equal(t, "Coffee", receipts[1].Items[0].Name)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresFindByUserID_Empty(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery("ORDER BY COALESCE").
		WithArgs("nobody").
		WillReturnRows(pgxmock.NewRows(receiptColumns()))

	receipts, err := repo.FindByUserID(context.Background(), "nobody", 0)
	require.NoError(t, err)
	assert.Empty(t, receipts)
	assert.NotNil(t, receipts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresDelete(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectExec("DELETE FROM receipts").
		WithArgs("r-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	existed, err := repo.Delete(context.Background(), "r-1")
	require.NoError(t, err)
	assert.True(t, existed)

	mock.ExpectExec("DELETE FROM receipts").
		WithArgs("missing").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	existed, err = repo.Delete(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, existed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresExists(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("r-1").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.Exists(context.Background(), "r-1")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUpdate_InvalidTransition(t *testing.T) {
	repo, mock := newMockRepository(t)

	created := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)
	var noPurchase *time.Time

	mock.ExpectQuery("SELECT receipt_id, user_id, purchase_date, total_amount").
		WithArgs("r-1").
		WillReturnRows(pgxmock.NewRows(receiptColumns()).
			AddRow("r-1", "alice", noPurchase, "12.00", "https://example.com/u1.jpg", "completed", created, created))
	mock.ExpectQuery("SELECT name, price").
		WithArgs("r-1").
		WillReturnRows(pgxmock.NewRows([]string{"name", "price", "quantity", "category"}))

	pending := domain.StatusPending
	_, err := repo.Update(context.Background(), "r-1", domain.ReceiptPatch{Status: &pending})
	require.Error(t, err)

	var transitionErr *domain.TransitionError
	assert.True(t, errors.As(err, &transitionErr))
	// The rejected patch never reaches a write
	assert.NoError(t, mock.ExpectationsWereMet())
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}
