// Package notify decouples domain services from notification delivery.
// Senders hand a message to a Notifier and move on; delivery failures are
// logged and never surface to the caller.
package notify

// Kind mirrors the notification categories shown to users.
type Kind string

const (
	KindInfo    Kind = "INFO"
	KindSuccess Kind = "SUCCESS"
	KindWarning Kind = "WARNING"
)

// Message is a fire-and-forget notification request.
type Message struct {
	UserID string
	Title  string
	Body   string
	Kind   Kind
	Link   string
}

// Notifier accepts messages for asynchronous delivery.
// Implementations must not block the caller and must not return errors;
// a failed delivery is the implementation's problem, not the sender's.
type Notifier interface {
	Notify(msg Message)
}
