package service

import (
	"context"

	"github.com/rs/zerolog"
)

// Cart mutation actions reported to the notifier.
const (
	ActionAdded   = "added"
	ActionUpdated = "updated"
	ActionRemoved = "removed"
	ActionCleared = "cleared"
	ActionMerged  = "merged"
)

// Notification describes a cart mutation for the UI notification sink
// (toast-equivalent). Delivery is best-effort and never affects the outcome
// of the mutation itself.
type Notification struct {
	UserID  string
	Action  string
	Product string
}

// Notifier is the external notification sink consumed by the cart core.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// LogNotifier emits notifications to the application log.
type LogNotifier struct {
	logger zerolog.Logger
}

// NewLogNotifier creates a log-backed notifier.
func NewLogNotifier(logger zerolog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.With().Str("component", "notifier").Logger()}
}

func (n *LogNotifier) Notify(ctx context.Context, event Notification) {
	n.logger.Info().
		Str("user_id", event.UserID).
		Str("action", event.Action).
		Str("product", event.Product).
		Msg("cart notification")
}

// NopNotifier discards notifications.
type NopNotifier struct{}

func (NopNotifier) Notify(ctx context.Context, _ Notification) {}
