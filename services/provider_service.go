package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// ProviderStatus is the provider-side state of a transaction as
// reported by the verify call.
type ProviderStatus string

const (
	ProviderStatusSuccess ProviderStatus = "success"
	ProviderStatusPending ProviderStatus = "pending"
	ProviderStatusFailed  ProviderStatus = "failed"
)

// PaymentProvider is the opaque charge/verify collaborator. The
// confirmation handler never trusts a webhook body; it always verifies
// the reference against the provider before applying effects.
type PaymentProvider interface {
	// Initialize starts a charge and returns the authorization URL the
	// payer is redirected to.
	Initialize(ctx context.Context, email string, amount int64, reference string, metadata map[string]string) (string, error)
	// Verify returns the provider-side status of a transaction.
	Verify(ctx context.Context, reference string) (ProviderStatus, error)
}

// PaystackProvider talks to a Paystack-compatible transaction API.
type PaystackProvider struct {
	SecretKey string
	BaseURL   string
	HTTPC     *http.Client
}

// NewPaystackProvider builds a provider client with a bounded timeout.
func NewPaystackProvider(secretKey, baseURL string) *PaystackProvider {
	return &PaystackProvider{
		SecretKey: secretKey,
		BaseURL:   baseURL,
		HTTPC:     &http.Client{Timeout: 15 * time.Second},
	}
}

type initializeRequest struct {
	Email     string            `json:"email"`
	Amount    int64             `json:"amount"`
	Reference string            `json:"reference"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

type initializeResponse struct {
	Status bool `json:"status"`
	Data   struct {
		AuthorizationURL string `json:"authorization_url"`
	} `json:"data"`
	Message string `json:"message"`
}

type verifyResponse struct {
	Status bool `json:"status"`
	Data   struct {
		Status string `json:"status"`
	} `json:"data"`
	Message string `json:"message"`
}

// Initialize starts a transaction and returns its authorization URL.
func (p *PaystackProvider) Initialize(ctx context.Context, email string, amount int64, reference string, metadata map[string]string) (string, error) {
	body, err := json.Marshal(initializeRequest{
		Email:     email,
		Amount:    amount,
		Reference: reference,
		Metadata:  metadata,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal initialize request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.BaseURL+"/transaction/initialize", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+p.SecretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.HTTPC.Do(req)
	if err != nil {
		return "", fmt.Errorf("provider initialize call failed: %w", err)
	}
	defer resp.Body.Close()

	var parsed initializeResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode initialize response: %w", err)
	}
	if !parsed.Status {
		return "", fmt.Errorf("provider rejected initialize: %s", parsed.Message)
	}
	return parsed.Data.AuthorizationURL, nil
}

// Verify fetches the provider-side status of a transaction.
func (p *PaystackProvider) Verify(ctx context.Context, reference string) (ProviderStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.BaseURL+"/transaction/verify/"+reference, nil)
	if err != nil {
		return ProviderStatusFailed, err
	}
	req.Header.Set("Authorization", "Bearer "+p.SecretKey)

	resp, err := p.HTTPC.Do(req)
	if err != nil {
		return ProviderStatusFailed, fmt.Errorf("provider verify call failed: %w", err)
	}
	defer resp.Body.Close()

	var parsed verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return ProviderStatusFailed, fmt.Errorf("failed to decode verify response: %w", err)
	}
	if !parsed.Status {
		return ProviderStatusFailed, fmt.Errorf("provider rejected verify: %s", parsed.Message)
	}

	switch parsed.Data.Status {
	case "success":
		return ProviderStatusSuccess, nil
	case "pending", "ongoing", "processing":
		return ProviderStatusPending, nil
	default:
		return ProviderStatusFailed, nil
	}
}
