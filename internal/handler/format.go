package handler

import (
	"time"

	"github.com/spendsapp/receipt-service/internal/domain"
	"github.com/spendsapp/receipt-service/internal/model"
)

// formatReceiptResponse converts a receipt entity into its API representation
func formatReceiptResponse(receipt *domain.Receipt) model.ReceiptResponse {
	items := make([]model.ReceiptItemResponse, 0, len(receipt.Items))
	for _, item := range receipt.Items {
		items = append(items, model.ReceiptItemResponse{
			Name:     item.Name,
			Price:    item.Price.StringFixed(2),
			Qty:      item.Quantity,
			Category: item.Category,
		})
	}

	response := model.ReceiptResponse{
		ReceiptID:   receipt.ReceiptID,
		UserID:      receipt.UserID,
		TotalAmount: receipt.TotalAmount.StringFixed(2),
		Items:       items,
		ImageURL:    receipt.ImageURL,
		Status:      string(receipt.Status),
		CreatedAt:   receipt.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   receipt.UpdatedAt.Format(time.RFC3339),
	}
	if !receipt.PurchaseDate.IsZero() {
		response.PurchaseDate = receipt.PurchaseDate.Format(time.RFC3339)
	}
	return response
}

// formatSummaryResponse converts a receipt summary into its API representation
func formatSummaryResponse(summary *domain.ReceiptSummary) model.SummaryResponse {
	response := model.SummaryResponse{
		ReceiptID:   summary.ReceiptID,
		UserID:      summary.UserID,
		TotalAmount: summary.TotalAmount.StringFixed(2),
		ItemCount:   summary.ItemCount,
		Categories:  summary.Categories,
	}
	if !summary.PurchaseDate.IsZero() {
		response.PurchaseDate = summary.PurchaseDate.Format(time.RFC3339)
	}
	return response
}
