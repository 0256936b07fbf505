// Package payments defines the narrow contract with the hosted payment
// collaborator: create a checkout session, retrieve one by id, and verify
// webhook signatures. The provider's SDK is deliberately not used.
package payments

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	OutcomePaid   = "paid"
	OutcomeFailed = "failed"
)

type CheckoutSession struct {
	ID          string `json:"id"`
	RedirectURL string `json:"redirectUrl"`
}

// SessionStatus is what the success page learns when it retrieves its
// checkout session by id.
type SessionStatus struct {
	ShareID          string `json:"shareId"`
	Outcome          string `json:"outcome"`
	PaymentReference string `json:"paymentReference"`
}

// WebhookEvent is the asynchronous completion signal.
type WebhookEvent struct {
	ShareID          string `json:"shareId"`
	Outcome          string `json:"outcome"`
	PaymentReference string `json:"paymentReference"`
}

type Provider interface {
	CreateCheckoutSession(ctx context.Context, shareID string, amountPence int, customerRef string) (CheckoutSession, error)
	RetrieveSession(ctx context.Context, sessionID string) (SessionStatus, error)
}

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

func (c *Client) CreateCheckoutSession(ctx context.Context, shareID string, amountPence int, customerRef string) (CheckoutSession, error) {
	payload, err := json.Marshal(map[string]any{
		"shareId":     shareID,
		"amountPence": amountPence,
		"customerRef": customerRef,
	})
	if err != nil {
		return CheckoutSession{}, fmt.Errorf("marshal checkout request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/checkout/sessions", bytes.NewReader(payload))
	if err != nil {
		return CheckoutSession{}, fmt.Errorf("build checkout request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return CheckoutSession{}, fmt.Errorf("create checkout session: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return CheckoutSession{}, fmt.Errorf("create checkout session: status %d: %s", resp.StatusCode, body)
	}

	var session CheckoutSession
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return CheckoutSession{}, fmt.Errorf("decode checkout session: %w", err)
	}
	if session.RedirectURL == "" {
		return CheckoutSession{}, fmt.Errorf("checkout session missing redirect url")
	}
	return session, nil
}

func (c *Client) RetrieveSession(ctx context.Context, sessionID string) (SessionStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/checkout/sessions/"+sessionID, nil)
	if err != nil {
		return SessionStatus{}, fmt.Errorf("build retrieve request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return SessionStatus{}, fmt.Errorf("retrieve session: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return SessionStatus{}, fmt.Errorf("checkout session %s not found", sessionID)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return SessionStatus{}, fmt.Errorf("retrieve session: status %d: %s", resp.StatusCode, body)
	}

	var status SessionStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return SessionStatus{}, fmt.Errorf("decode session status: %w", err)
	}
	return status, nil
}

// SignPayload produces the hex HMAC-SHA256 signature the webhook carries.
func SignPayload(secret, body []byte) string {
	mac := hmac.New(sha256.New, secret)
	_, _ = mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks a webhook body against its signature header in
// constant time.
func VerifySignature(secret, body []byte, signature string) bool {
	expected := SignPayload(secret, body)
	return hmac.Equal([]byte(expected), []byte(signature))
}
