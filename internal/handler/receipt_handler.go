package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spendsapp/receipt-service/internal/domain"
	"github.com/spendsapp/receipt-service/internal/model"
	"github.com/spendsapp/receipt-service/internal/service"
)

// ReceiptHandler handles HTTP requests for receipt-related operations
type ReceiptHandler struct {
	receiptService service.ReceiptService
}

// NewReceiptHandler creates a new receipt handler
func NewReceiptHandler(receiptService service.ReceiptService) *ReceiptHandler {
	return &ReceiptHandler{
		receiptService: receiptService,
	}
}

// UploadReceipt handles the POST /receipts/upload endpoint
// @Summary Upload a receipt image
// @Description Store a receipt photo and extract its line items and total with the vision API
// @Tags receipts
// @Accept multipart/form-data
// @Produce json
// @Param receiptImage formData file true "Receipt image file"
// @Success 200 {object} model.ReceiptResponse "Receipt processed"
// @Failure 400 {object} model.ErrorResponse "Bad request"
// @Failure 422 {object} model.UploadFailureResponse "Extraction failed, receipt stored as failed"
// @Failure 500 {object} model.ErrorResponse "Internal server error"
// @Router /v1/receipts/upload [post]
func (h *ReceiptHandler) UploadReceipt(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		respondUnauthorized(c, "User not authenticated")
		return
	}

	file, _, err := getFormFile(c, "receiptImage")
	if err != nil {
		respondBadRequest(c, err.Error(), newErrorDetail("receiptImage", "Receipt image is required"))
		return
	}
	defer file.Close()

	fileBytes, err := io.ReadAll(file)
	if err != nil {
		respondInternalServerError(c, ErrFileProcessing)
		return
	}

	receipt, err := h.receiptService.UploadReceipt(c.Request.Context(), fileBytes, userID)
	if err != nil {
		var uploadErr *service.UploadError
		if errors.As(err, &uploadErr) {
			// The receipt exists in FAILED state; hand its ID back so the
			// user can reference it for reprocessing or support
			c.JSON(http.StatusUnprocessableEntity, model.UploadFailureResponse{
				Message:   "Unable to extract receipt data",
				ReceiptID: uploadErr.ReceiptID,
			})
			return
		}
		respondInternalServerError(c, ErrFileProcessing)
		return
	}

	respondOK(c, formatReceiptResponse(receipt))
}

// GetReceipt handles the GET /receipts/:receiptId endpoint
// @Summary Get a receipt by ID
// @Tags receipts
// @Produce json
// @Param receiptId path string true "Receipt ID"
// @Success 200 {object} model.ReceiptResponse "Receipt"
// @Failure 404 {object} model.ErrorResponse "Not found"
// @Failure 500 {object} model.ErrorResponse "Internal server error"
// @Router /v1/receipts/{receiptId} [get]
func (h *ReceiptHandler) GetReceipt(c *gin.Context) {
	receiptID, err := getPathParam(c, "receiptId")
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	receipt, err := h.receiptService.GetReceiptByID(c.Request.Context(), receiptID)
	if err != nil {
		if errors.Is(err, domain.ErrReceiptNotFound) {
			respondNotFound(c, ErrResourceNotFound)
			return
		}
		respondInternalServerError(c, ErrInternalServer)
		return
	}

	respondOK(c, formatReceiptResponse(receipt))
}

// ListReceipts handles the GET /receipts endpoint
// @Summary List the authenticated user's receipts
// @Description Returns the user's receipts newest-first, optionally truncated to a limit
// @Tags receipts
// @Produce json
// @Param limit query int false "Maximum number of receipts" default(0)
// @Success 200 {object} model.ReceiptListResponse "Receipts"
// @Failure 400 {object} model.ErrorResponse "Invalid query parameters"
// @Failure 500 {object} model.ErrorResponse "Internal server error"
// @Router /v1/receipts [get]
func (h *ReceiptHandler) ListReceipts(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		respondUnauthorized(c, "User not authenticated")
		return
	}

	limit, err := getQueryInt(c, "limit", 0)
	if err != nil || limit < 0 {
		respondBadRequest(c, ErrInvalidQueryParams, newErrorDetail("limit", "must be a non-negative integer"))
		return
	}

	receipts, err := h.receiptService.ListUserReceipts(c.Request.Context(), userID, limit)
	if err != nil {
		respondInternalServerError(c, ErrInternalServer)
		return
	}

	data := make([]model.ReceiptResponse, 0, len(receipts))
	for i := range receipts {
		data = append(data, formatReceiptResponse(&receipts[i]))
	}

	respondOK(c, model.ReceiptListResponse{Data: data, Count: len(data)})
}

// PatchReceipt handles the PATCH /receipts/:receiptId endpoint
// @Summary Update mutable receipt fields
// @Description Applies a patch naming only the mutable fields; unknown keys are rejected
// @Tags receipts
// @Accept json
// @Produce json
// @Param receiptId path string true "Receipt ID"
// @Param patch body model.ReceiptPatchRequest true "Fields to change"
// @Success 200 {object} model.ReceiptResponse "Updated receipt"
// @Failure 400 {object} model.ErrorResponse "Invalid input"
// @Failure 404 {object} model.ErrorResponse "Not found"
// @Failure 409 {object} model.ErrorResponse "Invalid status transition"
// @Router /v1/receipts/{receiptId} [patch]
func (h *ReceiptHandler) PatchReceipt(c *gin.Context) {
	receiptID, err := getPathParam(c, "receiptId")
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	var req model.ReceiptPatchRequest
	if err := decodeStrictJSON(c, &req); err != nil {
		respondBadRequest(c, ErrInvalidInput)
		return
	}

	patch, details := buildPatch(&req)
	if len(details) > 0 {
		respondBadRequest(c, ErrInvalidInput, details...)
		return
	}

	receipt, err := h.receiptService.UpdateReceipt(c.Request.Context(), receiptID, patch)
	if err != nil {
		var transitionErr *domain.TransitionError
		switch {
		case errors.Is(err, domain.ErrReceiptNotFound):
			respondNotFound(c, ErrResourceNotFound)
		case errors.As(err, &transitionErr):
			respondConflict(c, transitionErr.Error())
		default:
			respondInternalServerError(c, ErrInternalServer)
		}
		return
	}

	respondOK(c, formatReceiptResponse(receipt))
}

// DeleteReceipt handles the DELETE /receipts/:receiptId endpoint
// @Summary Delete a receipt
// @Description Removes the receipt and its line items
// @Tags receipts
// @Param receiptId path string true "Receipt ID"
// @Success 204 "Deleted"
// @Failure 404 {object} model.ErrorResponse "Not found"
// @Failure 500 {object} model.ErrorResponse "Internal server error"
// @Router /v1/receipts/{receiptId} [delete]
func (h *ReceiptHandler) DeleteReceipt(c *gin.Context) {
	receiptID, err := getPathParam(c, "receiptId")
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	existed, err := h.receiptService.DeleteReceipt(c.Request.Context(), receiptID)
	if err != nil {
		respondInternalServerError(c, ErrInternalServer)
		return
	}
	if !existed {
		respondNotFound(c, ErrResourceNotFound)
		return
	}

	respondNoContent(c)
}

// ReprocessReceipt handles the POST /receipts/:receiptId/reprocess endpoint
// @Summary Reprocess a failed receipt
// @Description Moves a failed receipt back to pending and runs extraction again
// @Tags receipts
// @Produce json
// @Param receiptId path string true "Receipt ID"
// @Success 200 {object} model.ReceiptResponse "Reprocessed receipt"
// @Failure 404 {object} model.ErrorResponse "Not found"
// @Failure 409 {object} model.ErrorResponse "Receipt is not in a reprocessable state"
// @Failure 422 {object} model.UploadFailureResponse "Extraction failed again"
// @Router /v1/receipts/{receiptId}/reprocess [post]
func (h *ReceiptHandler) ReprocessReceipt(c *gin.Context) {
	receiptID, err := getPathParam(c, "receiptId")
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	receipt, err := h.receiptService.ReprocessReceipt(c.Request.Context(), receiptID)
	if err != nil {
		var uploadErr *service.UploadError
		var transitionErr *domain.TransitionError
		switch {
		case errors.Is(err, domain.ErrReceiptNotFound):
			respondNotFound(c, ErrResourceNotFound)
		case errors.As(err, &transitionErr):
			respondConflict(c, transitionErr.Error())
		case errors.As(err, &uploadErr):
			c.JSON(http.StatusUnprocessableEntity, model.UploadFailureResponse{
				Message:   "Unable to extract receipt data",
				ReceiptID: uploadErr.ReceiptID,
			})
		default:
			respondInternalServerError(c, ErrInternalServer)
		}
		return
	}

	respondOK(c, formatReceiptResponse(receipt))
}

// GetReceiptSummary handles the GET /receipts/:receiptId/summary endpoint
// @Summary Get a receipt summary
// @Description Returns the read-only projection: total, item count, distinct categories
// @Tags receipts
// @Produce json
// @Param receiptId path string true "Receipt ID"
// @Success 200 {object} model.SummaryResponse "Summary"
// @Failure 404 {object} model.ErrorResponse "Not found"
// @Router /v1/receipts/{receiptId}/summary [get]
func (h *ReceiptHandler) GetReceiptSummary(c *gin.Context) {
	receiptID, err := getPathParam(c, "receiptId")
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	summary, err := h.receiptService.GetReceiptSummary(c.Request.Context(), receiptID)
	if err != nil {
		if errors.Is(err, domain.ErrReceiptNotFound) {
			respondNotFound(c, ErrResourceNotFound)
			return
		}
		respondInternalServerError(c, ErrInternalServer)
		return
	}

	respondOK(c, formatSummaryResponse(summary))
}
