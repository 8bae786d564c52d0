package mailer

import "time"

// Attachment is a file attached to an outgoing message, either by path or
// as an inline buffer.
type Attachment struct {
	Name    string
	Path    string
	Content []byte
}

// Message is a fully-formed outgoing email. Messages are ephemeral and
// never persisted; one lost on process crash before send is acceptable.
type Message struct {
	To         string
	Subject    string
	HTMLBody   string
	Attachment *Attachment
}

// Attempt records a single delivery attempt for diagnostics. Not persisted.
type Attempt struct {
	Provider string
	Number   int
	Err      error
	Duration time.Duration
}

// SendResult is the outcome of a delivery sequence.
type SendResult struct {
	Provider  string
	MessageID string

	// IsTestDelivery is true when the message only reached the local
	// capture sink, not a real provider.
	IsTestDelivery bool

	Attempts []Attempt
}
