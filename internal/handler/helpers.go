package handler

import (
	"encoding/json"
	"fmt"
	"mime/multipart"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/spendsapp/receipt-service/internal/domain"
	"github.com/spendsapp/receipt-service/internal/model"
)

// getPathParam retrieves a path parameter and validates it's not empty
func getPathParam(c *gin.Context, paramName string) (string, error) {
	value := c.Param(paramName)
	if value == "" {
		return "", fmt.Errorf("%s is required", paramName)
	}
	return value, nil
}

// getQueryInt retrieves an integer query parameter with a default value
func getQueryInt(c *gin.Context, paramName string, defaultValue int) (int, error) {
	valueStr := c.Query(paramName)
	if valueStr == "" {
		return defaultValue, nil
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: must be an integer", paramName)
	}

	return value, nil
}

// getFormFile retrieves a file from multipart form data
func getFormFile(c *gin.Context, fieldName string) (multipart.File, *multipart.FileHeader, error) {
	file, header, err := c.Request.FormFile(fieldName)
	if err != nil {
		return nil, nil, fmt.Errorf("no %s provided", fieldName)
	}
	return file, header, nil
}

// currentUserID reads the user ID the auth middleware stored on the context
func currentUserID(c *gin.Context) (string, bool) {
	userID, exists := c.Get("userID")
	if !exists {
		return "", false
	}
	id, ok := userID.(string)
	return id, ok && id != ""
}

// decodeStrictJSON decodes the request body, rejecting unknown keys. Patch
// requests must name only fields the mutable-field allow-list knows.
func decodeStrictJSON(c *gin.Context, obj interface{}) error {
	decoder := json.NewDecoder(c.Request.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(obj); err != nil {
		return fmt.Errorf("invalid JSON body: %v", err)
	}
	return nil
}

// buildPatch converts a patch request into a domain patch, validating the
// field encodings
func buildPatch(req *model.ReceiptPatchRequest) (domain.ReceiptPatch, []model.ErrorDetail) {
	var patch domain.ReceiptPatch
	var details []model.ErrorDetail

	if req.PurchaseDate != nil {
		date, err := time.Parse("2006-01-02", *req.PurchaseDate)
		if err != nil {
			details = append(details, newErrorDetail("purchase_date", "expected YYYY-MM-DD"))
		} else {
			patch.PurchaseDate = &date
		}
	}

	if req.TotalAmount != nil {
		total, err := decimal.NewFromString(*req.TotalAmount)
		if err != nil || total.IsNegative() {
			details = append(details, newErrorDetail("total_amount", "expected a non-negative decimal"))
		} else {
			patch.TotalAmount = &total
		}
	}

	if req.Items != nil {
		items := make([]domain.ReceiptItem, 0, len(*req.Items))
		for i, input := range *req.Items {
			if input.Name == "" {
				details = append(details, newErrorDetail(fmt.Sprintf("items[%d].name", i), "must not be empty"))
				continue
			}
			price, err := decimal.NewFromString(input.Price)
			if err != nil || price.IsNegative() {
				details = append(details, newErrorDetail(fmt.Sprintf("items[%d].price", i), "expected a non-negative decimal"))
				continue
			}
			items = append(items, domain.NewReceiptItem(input.Name, price, input.Qty, input.Category))
		}
		patch.Items = &items
	}

	if req.Status != nil {
		status, err := domain.ParseStatus(*req.Status)
		if err != nil {
			details = append(details, newErrorDetail("status", "unknown status value"))
		} else {
			patch.Status = &status
		}
	}

	return patch, details
}
