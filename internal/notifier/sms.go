// Package notifier delivers user-facing messages about withdrawal
// transitions through an SMS provider webhook. Delivery is best effort.
package notifier

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
)

type SMSNotifier struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	sender     string
}

func NewSMSNotifier(baseURL, apiKey, sender string) port.Notifier {
	return &SMSNotifier{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: baseURL,
		apiKey:  apiKey,
		sender:  sender,
	}
}

func (n *SMSNotifier) Notify(ctx context.Context, userID string, event domain.NotificationEvent, payload map[string]any) error {
	body, err := json.Marshal(map[string]any{
		"to":      userID,
		"sender":  n.sender,
		"message": messageFor(event, payload),
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.baseURL+"/v1/sms", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Api-Key", n.apiKey)

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("sms provider returned %d: %s", resp.StatusCode, string(data))
	}
	return nil
}

func messageFor(event domain.NotificationEvent, payload map[string]any) string {
	switch event {
	case domain.EventWithdrawalRequested:
		return fmt.Sprintf("Your withdrawal request for %v points has been received.", payload["points"])
	case domain.EventWithdrawalCompleted:
		return fmt.Sprintf("Your payout of Rs %v is on its way. Ref: %v", payload["amount"], payload["transaction_id"])
	case domain.EventWithdrawalFailed:
		return fmt.Sprintf("Your withdrawal could not be processed: %v. Your points are untouched.", payload["reason"])
	case domain.EventWithdrawalRejected:
		return fmt.Sprintf("Your withdrawal request was rejected: %v", payload["reason"])
	default:
		return string(event)
	}
}
