package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/spendsapp/receipt-service/internal/domain"
)

const extractionPrompt = `You are a receipt data extraction assistant. Extract the following information from the receipt image:
- Line items (name, unit price, quantity, and category for each)
- Total amount
- Purchase date (in YYYY-MM-DD format)

Format your response as a valid JSON object with the following structure:
{
  "items": [
    {
      "name": "...",
      "price": 0.0,
      "quantity": 1,
      "category": "..."
    }
  ],
  "total": 0.0,
  "purchase_date": "YYYY-MM-DD"
}

For each item, if you can infer the category (e.g. "beverages", "bakery", "groceries", "transport") from the name, provide it. If not, use "other".

Do not include any other text in your response, only provide the JSON.`

// ExtractReceiptData sends a receipt image URL to the vision model and
// returns the structured extraction result
func (c *Client) ExtractReceiptData(ctx context.Context, imageURL string) (*domain.ExtractionResult, error) {
	if c.apiKey == "" {
		return nil, &OpenRouterError{
			Op:  "validate_configuration",
			Err: fmt.Errorf("OpenRouter API key is not configured. Please set OPENROUTER_API_KEY environment variable"),
		}
	}

	type imageURLPart struct {
		URL string `json:"url"`
	}

	type contentPart struct {
		Type     string        `json:"type"`
		Text     string        `json:"text,omitempty"`
		ImageURL *imageURLPart `json:"image_url,omitempty"`
	}

	type message struct {
		Role    string        `json:"role"`
		Content []contentPart `json:"content"`
	}

	requestPayload := map[string]any{
		"model": c.modelID,
		"messages": []message{
			{
				Role: "system",
				Content: []contentPart{
					{Type: "text", Text: extractionPrompt},
				},
			},
			{
				Role: "user",
				Content: []contentPart{
					{Type: "text", Text: "Extract the data from this receipt image."},
					{Type: "image_url", ImageURL: &imageURLPart{URL: imageURL}},
				},
			},
		},
	}

	requestData, err := json.Marshal(requestPayload)
	if err != nil {
		return nil, &OpenRouterError{
			Op:  "marshal_request",
			Err: fmt.Errorf("failed to marshal request payload: %w", err),
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewBuffer(requestData))
	if err != nil {
		return nil, &OpenRouterError{
			Op:  "create_extract_request",
			Err: fmt.Errorf("failed to create request: %w", err),
		}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &OpenRouterError{
			Op:  "send_extract_request",
			Err: fmt.Errorf("failed to send request: %w", err),
		}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &OpenRouterError{
			Op:  "read_response_body",
			Err: fmt.Errorf("failed to read response body: %w", err),
		}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &OpenRouterError{
			Op:  "check_response_status",
			Err: fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(respBody)),
		}
	}

	return c.parseExtractionResponse(respBody)
}
