package notifier

import (
	"context"
	"log/slog"

	"fitcash/internal/domain"
	"fitcash/internal/port"
)

// NoopNotifier logs instead of sending. Used when the SMS provider is not
// configured.
type NoopNotifier struct {
	logger *slog.Logger
}

func NewNoopNotifier(logger *slog.Logger) port.Notifier {
	return &NoopNotifier{logger: logger}
}

func (n *NoopNotifier) Notify(ctx context.Context, userID string, event domain.NotificationEvent, payload map[string]any) error {
	n.logger.Info("notification suppressed", "user_id", userID, "event", string(event))
	return nil
}
