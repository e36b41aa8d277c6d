// Package upi is the boundary to the external payout provider. It turns a
// withdrawal into exactly one transfer request and classifies every possible
// outcome into a TransferResult; no error ever escapes it.
package upi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"fitcash/internal/domain"
	"fitcash/internal/port"

	"github.com/shopspring/decimal"
)

type Client struct {
	httpClient   *http.Client
	baseURL      string
	clientID     string
	clientSecret string
	bypass       bool
}

type tokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
}

type transferRequest struct {
	TransferID string          `json:"transfer_id"`
	Amount     decimal.Decimal `json:"amount"`
	UpiID      string          `json:"upi_id"`
	Remarks    string          `json:"remarks"`
}

type transferResponse struct {
	Status        string `json:"status"`
	TransactionID string `json:"transaction_id"`
	Message       string `json:"message"`
}

func NewClient(baseURL, clientID, clientSecret string, timeout time.Duration, bypass bool) port.PayoutGateway {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL:      baseURL,
		clientID:     clientID,
		clientSecret: clientSecret,
		bypass:       bypass,
	}
}

// Transfer runs the provider's two-step protocol: obtain a short-lived
// bearer token, then submit the transfer. The transfer id reuses the
// withdrawal id as a stable prefix so the provider can deduplicate.
func (c *Client) Transfer(ctx context.Context, w *domain.Withdrawal) domain.TransferResult {
	transferID := fmt.Sprintf("WD_%s_%d", w.ID, time.Now().Unix())

	if c.bypass {
		return domain.TransferResult{
			Success:       true,
			TransactionID: fmt.Sprintf("SIM_%d", time.Now().UnixNano()),
			TransferID:    transferID,
		}
	}

	if c.clientID == "" || c.clientSecret == "" {
		return failure(transferID, "payout gateway credentials not configured")
	}

	token, err := c.authorize(ctx)
	if err != nil {
		return failure(transferID, fmt.Sprintf("authorization failed: %v", err))
	}

	resp, err := c.submitTransfer(ctx, token, transferRequest{
		TransferID: transferID,
		Amount:     w.Amount,
		UpiID:      w.UpiID,
		Remarks:    fmt.Sprintf("fitcash payout %d points", w.Points),
	})
	if err != nil {
		return failure(transferID, fmt.Sprintf("transfer failed: %v", err))
	}

	if resp.Status != "SUCCESS" {
		reason := resp.Message
		if reason == "" {
			reason = fmt.Sprintf("transfer rejected with status %q", resp.Status)
		}
		return failure(transferID, reason)
	}

	if resp.TransactionID == "" {
		return failure(transferID, "provider returned success without a transaction id")
	}

	return domain.TransferResult{
		Success:       true,
		TransactionID: resp.TransactionID,
		TransferID:    transferID,
	}
}

func (c *Client) authorize(ctx context.Context) (string, error) {
	body, err := json.Marshal(map[string]string{
		"client_id":     c.clientID,
		"client_secret": c.clientSecret,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/auth/token", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("token endpoint returned %d: %s", resp.StatusCode, string(data))
	}

	var token tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return "", fmt.Errorf("malformed token response: %w", err)
	}
	if token.Token == "" {
		return "", fmt.Errorf("token response missing token")
	}

	return token.Token, nil
}

func (c *Client) submitTransfer(ctx context.Context, token string, tr transferRequest) (*transferResponse, error) {
	body, err := json.Marshal(tr)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/transfers", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("transfer endpoint returned %d: %s", resp.StatusCode, string(data))
	}

	var result transferResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("malformed transfer response: %w", err)
	}

	return &result, nil
}

func failure(transferID, reason string) domain.TransferResult {
	return domain.TransferResult{
		Success:    false,
		Reason:     reason,
		TransferID: transferID,
	}
}
