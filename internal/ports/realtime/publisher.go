package realtime

// Event is a structured message pushed to a user's open channels.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// Publisher delivers an event to every open channel of a user.
// Best-effort, at-most-once: publishing to a user with no open channel
// is a silent no-op, and callers never query channel existence.
//
// Injected into the components that publish (no package-level registry),
// so fan-out is testable with a fake.
type Publisher interface {
	Publish(userID string, ev Event)
}

// NopPublisher drops everything.
type NopPublisher struct{}

func (NopPublisher) Publish(string, Event) {}
