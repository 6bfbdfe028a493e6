package model

// ReceiptResponse represents the response for a single receipt
type ReceiptResponse struct {
	ReceiptID    string                `json:"receipt_id"`
	UserID       string                `json:"user_id"`
	PurchaseDate string                `json:"purchase_date,omitempty"`
	TotalAmount  string                `json:"total_amount"`
	Items        []ReceiptItemResponse `json:"items"`
	ImageURL     string                `json:"image_url"`
	Status       string                `json:"status"`
	CreatedAt    string                `json:"created_at"`
	UpdatedAt    string                `json:"updated_at"`
}

// ReceiptItemResponse represents a single receipt item
type ReceiptItemResponse struct {
	Name     string `json:"name"`
	Price    string `json:"price"`
	Qty      int    `json:"qty"`
	Category string `json:"category"`
}

// ReceiptListResponse represents a list of receipts for one user
type ReceiptListResponse struct {
	Data  []ReceiptResponse `json:"data"`
	Count int               `json:"count"`
}

// SummaryResponse represents the read-only receipt projection
type SummaryResponse struct {
	ReceiptID    string   `json:"receipt_id"`
	UserID       string   `json:"user_id"`
	PurchaseDate string   `json:"purchase_date,omitempty"`
	TotalAmount  string   `json:"total_amount"`
	ItemCount    int      `json:"item_count"`
	Categories   []string `json:"categories"`
}

// UploadFailureResponse reports a failed extraction together with the
// identifier of the stored receipt, so the user can reference it later
type UploadFailureResponse struct {
	Message   string `json:"message"`
	ReceiptID string `json:"receipt_id"`
}

// ReceiptPatchRequest enumerates the mutable receipt fields for PATCH
// requests. Unknown keys in the request body are rejected.
type ReceiptPatchRequest struct {
	PurchaseDate *string             `json:"purchase_date"`
	TotalAmount  *string             `json:"total_amount"`
	Items        *[]ReceiptItemInput `json:"items"`
	Status       *string             `json:"status"`
}

// ReceiptItemInput is one line item in a patch request
type ReceiptItemInput struct {
	Name     string `json:"name"`
	Price    string `json:"price"`
	Qty      int    `json:"qty"`
	Category string `json:"category"`
}

// TokenRequest asks for a JWT for the given user
type TokenRequest struct {
	UserID   string `json:"user_id" binding:"required"`
	Username string `json:"username"`
}

// TokenResponse carries an issued JWT
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"` // seconds
}

// ErrorResponse is the standard error envelope
type ErrorResponse struct {
	Status  string        `json:"status"`
	Message string        `json:"message"`
	Details []ErrorDetail `json:"details,omitempty"`
}

// ErrorDetail pinpoints a single invalid field
type ErrorDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
