package notify

import (
	"context"

	"github.com/vogiaan1904/seatqueue/pkg/logger"
)

const EventTableReady = "tableReady"

// SessionLookup is the narrow view of the registry the notifier needs.
type SessionLookup interface {
	SessionsFor(customerID int64) []Session
	Forget(customerID int64)
}

type Notifier interface {
	Notify(ctx context.Context, customerID int64)
}

type sessionNotifier struct {
	sessions SessionLookup
	l        logger.Logger
}

func NewNotifier(sessions SessionLookup, l logger.Logger) Notifier {
	return &sessionNotifier{
		sessions: sessions,
		l:        l,
	}
}

// Notify delivers tableReady to one connected session of the customer, fire-and-forget.
func (n *sessionNotifier) Notify(ctx context.Context, customerID int64) {
	defer n.sessions.Forget(customerID)

	for _, s := range n.sessions.SessionsFor(customerID) {
		if err := s.Send(EventTableReady); err != nil {
			n.l.Debug(ctx, "Session send failed, trying next",
				"customer_id", customerID,
				"error", err,
			)
			continue
		}

		n.l.Info(ctx, "Emitted tableReady", "customer_id", customerID)
		return
	}

	n.l.Info(ctx, "No connected session for customer, tableReady not delivered",
		"customer_id", customerID,
	)
}
