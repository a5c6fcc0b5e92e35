// services/payment_service.go
package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"yardly-backend/utils"
)

var ErrPaymentIncomplete = errors.New("payment_incomplete")

// CheckoutSession is the hosted processor's pending-payment handle. The
// frontend redirects the guest to URL; ID comes back on confirmation.
type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// PaymentService talks to the hosted payment processor. Explicitly
// constructed so tests can point it at a local server.
type PaymentService struct {
	Endpoint string
	APIKey   string
	Client   *http.Client
}

func NewPaymentService(endpoint, apiKey string) *PaymentService {
	return &PaymentService{
		Endpoint: strings.TrimRight(endpoint, "/"),
		APIKey:   apiKey,
		Client:   &http.Client{Timeout: 30 * time.Second},
	}
}

func NewPaymentServiceFromEnv() *PaymentService {
	return NewPaymentService(
		utils.EnvOrDefault("PAYMENTS_ENDPOINT", "https://api.payments.example.com/v1"),
		os.Getenv("PAYMENTS_API_KEY"),
	)
}

type createSessionRequest struct {
	Description string `json:"description"`
	AmountCents int64  `json:"amount_cents"`
	Currency    string `json:"currency"`
	SuccessURL  string `json:"success_url"`
	CancelURL   string `json:"cancel_url"`
}

type sessionResponse struct {
	ID     string `json:"id"`
	URL    string `json:"url"`
	Status string `json:"status"`
}

func (s *PaymentService) do(method, path string, payload interface{}) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("cannot marshal payload: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, s.Endpoint+path, body)
	if err != nil {
		return nil, fmt.Errorf("cannot build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.APIKey)

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("HTTP error %d: %s", resp.StatusCode, string(bodyBytes))
	}
	return bodyBytes, nil
}

// CreateCheckoutSession registers a pending payment and returns the hosted
// checkout redirect.
func (s *PaymentService) CreateCheckoutSession(description string, amountCents int64, successURL, cancelURL string) (CheckoutSession, error) {
	if amountCents <= 0 {
		return CheckoutSession{}, fmt.Errorf("validation: non-positive amount %d", amountCents)
	}

	payload := createSessionRequest{
		Description: description,
		AmountCents: amountCents,
		Currency:    "usd",
		SuccessURL:  successURL,
		CancelURL:   cancelURL,
	}

	bodyBytes, err := s.do(http.MethodPost, "/checkout/sessions", payload)
	if err != nil {
		return CheckoutSession{}, err
	}

	var sr sessionResponse
	if err := json.Unmarshal(bodyBytes, &sr); err != nil {
		return CheckoutSession{}, fmt.Errorf("JSON parse error: %w", err)
	}
	if sr.ID == "" || sr.URL == "" {
		return CheckoutSession{}, fmt.Errorf("incomplete session response: %s", string(bodyBytes))
	}
	return CheckoutSession{ID: sr.ID, URL: sr.URL}, nil
}

// VerifySession checks that the guest completed payment for the session.
// Returns ErrPaymentIncomplete when the processor reports any non-paid state.
func (s *PaymentService) VerifySession(sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return errors.New("validation: empty session id")
	}

	bodyBytes, err := s.do(http.MethodGet, "/checkout/sessions/"+sessionID, nil)
	if err != nil {
		return err
	}

	var sr sessionResponse
	if err := json.Unmarshal(bodyBytes, &sr); err != nil {
		return fmt.Errorf("JSON parse error: %w", err)
	}
	if !strings.EqualFold(sr.Status, "paid") && !strings.EqualFold(sr.Status, "complete") {
		return ErrPaymentIncomplete
	}
	return nil
}
