package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const razorpayBaseURL = "https://api.razorpay.com/v1"

// RazorpayGateway creates real provider orders over the Razorpay REST API
// using basic auth with the key pair.
type RazorpayGateway struct {
	keyID   string
	secret  string
	baseURL string
	client  *http.Client
}

func NewRazorpayGateway(keyID, secret string) *RazorpayGateway {
	return &RazorpayGateway{
		keyID:   keyID,
		secret:  secret,
		baseURL: razorpayBaseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type razorpayOrderRequest struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt,omitempty"`
	Notes    map[string]string `json:"notes,omitempty"`
}

type razorpayError struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

func (g *RazorpayGateway) CreateOrder(ctx context.Context, params CreateOrderParams) (ProviderOrder, error) {
	payload, err := json.Marshal(razorpayOrderRequest{
		Amount:   params.Amount,
		Currency: params.Currency,
		Receipt:  params.Receipt,
		Notes:    params.Notes,
	})
	if err != nil {
		return ProviderOrder{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/orders", bytes.NewReader(payload))
	if err != nil {
		return ProviderOrder{}, err
	}
	req.SetBasicAuth(g.keyID, g.secret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return ProviderOrder{}, fmt.Errorf("razorpay order create: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return ProviderOrder{}, err
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr razorpayError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error.Description != "" {
			return ProviderOrder{}, fmt.Errorf("razorpay order create: %s (%s)", apiErr.Error.Description, apiErr.Error.Code)
		}
		return ProviderOrder{}, fmt.Errorf("razorpay order create: unexpected status %d", resp.StatusCode)
	}

	var order ProviderOrder
	if err := json.Unmarshal(body, &order); err != nil {
		return ProviderOrder{}, err
	}
	return order, nil
}
