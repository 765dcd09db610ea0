package notify

import (
	"context"
	"errors"
)

// ErrNotConfigured means the notifier has no backing transport wired in.
// Callers treat it as a skipped best-effort attempt, not a fault.
var ErrNotConfigured = errors.New("notifier not configured")

type Message struct {
	To        string
	ToName    string
	Subject   string
	PlainText string
	HTML      string
}

// Notifier is the durable out-of-band channel (email today).
// Fire-and-forget: failures are per-recipient and never roll back the
// action that triggered the notice.
type Notifier interface {
	Send(ctx context.Context, msg Message) error
}
