package openrouter

import (
	"encoding/json"
	"fmt"
	"regexp"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spendsapp/receipt-service/internal/domain"
)

// receiptDTO mirrors the JSON structure the extraction prompt asks for
type receiptDTO struct {
	Items []struct {
		Name     string  `json:"name"`
		Price    float64 `json:"price"`
		Quantity int     `json:"quantity"`
		Category string  `json:"category"`
	} `json:"items"`
	Total        float64 `json:"total"`
	PurchaseDate string  `json:"purchase_date"`
}

var codeFencePattern = regexp.MustCompile("```(?:json)?\\s*")

// parseExtractionResponse parses the chat-completions response and the model
// output inside it
func (c *Client) parseExtractionResponse(respBody []byte) (*domain.ExtractionResult, error) {
	type choice struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	}

	type response struct {
		Choices []choice `json:"choices"`
	}

	var parsed response
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, &OpenRouterError{
			Op:  "parse_response_json",
			Err: fmt.Errorf("failed to unmarshal response: %w", err),
		}
	}

	if len(parsed.Choices) == 0 {
		return nil, &OpenRouterError{
			Op:  "check_response_choices",
			Err: fmt.Errorf("no choices in response"),
		}
	}

	content := parsed.Choices[0].Message.Content

	var dto receiptDTO
	if err := json.Unmarshal([]byte(content), &dto); err != nil {
		// Models sometimes wrap the JSON in a fenced code block despite
		// the prompt; strip the fences and retry once.
		stripped := codeFencePattern.ReplaceAllString(content, "")
		if err := json.Unmarshal([]byte(stripped), &dto); err != nil {
			return nil, &OpenRouterError{
				Op:  "parse_model_output",
				Err: fmt.Errorf("model output is not valid JSON: %w", err),
			}
		}
	}

	return dtoToResult(dto)
}

// dtoToResult converts the parsed DTO into the domain extraction result
func dtoToResult(dto receiptDTO) (*domain.ExtractionResult, error) {
	result := &domain.ExtractionResult{
		Items: make([]domain.ReceiptItem, 0, len(dto.Items)),
		Total: decimal.NewFromFloat(dto.Total).Round(2),
	}

	for _, item := range dto.Items {
		result.Items = append(result.Items, domain.NewReceiptItem(
			item.Name,
			decimal.NewFromFloat(item.Price).Round(2),
			item.Quantity,
			item.Category,
		))
	}

	if dto.PurchaseDate != "" {
		purchaseDate, err := time.Parse("2006-01-02", dto.PurchaseDate)
		if err == nil {
			result.PurchaseDate = purchaseDate
		}
	}

	return result, nil
}
