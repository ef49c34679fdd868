package notification

import (
	"context"

	"go.uber.org/zap"
)

// Event kinds emitted by the core. AMQP routing keys reuse these.
const (
	KindReservationCreated = "reservation.created"
	KindReservationStatus  = "reservation.status"
	KindGroupDisbanded     = "group.disbanded"
)

// Notifier delivers a one-way message to a user. Delivery is
// best-effort everywhere: callers log failures and move on, and a
// failed notification never rolls back the domain write that
// triggered it.
type Notifier interface {
	Notify(ctx context.Context, userID, kind, title, message string, metadata map[string]string) error
}

// NopNotifier discards everything.
type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, string, string, string, string, map[string]string) error {
	return nil
}

// Fanout delivers through every given notifier. The first error is
// returned after all sinks have been attempted.
func Fanout(notifiers ...Notifier) Notifier {
	return fanout(notifiers)
}

type fanout []Notifier

func (f fanout) Notify(ctx context.Context, userID, kind, title, message string, metadata map[string]string) error {
	var firstErr error
	for _, n := range f {
		if err := n.Notify(ctx, userID, kind, title, message, metadata); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// LogNotifier writes notifications to the log only. Useful for local
// development without a database feed or broker.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(_ context.Context, userID, kind, title, message string, _ map[string]string) error {
	n.logger.Info("notify",
		zap.String("user_id", userID),
		zap.String("kind", kind),
		zap.String("title", title),
		zap.String("message", message),
	)
	return nil
}
