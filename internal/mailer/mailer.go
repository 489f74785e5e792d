package mailer

import (
	"context"
	"errors"
)

// ErrNotConfigured is returned by Send when the transport credential is unset.
var ErrNotConfigured = errors.New("mail credentials are not configured")

// Message is a single HTML email addressed to exactly one recipient.
type Message struct {
	To      string
	Subject string
	HTML    string
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
	// Configured reports whether the credential needed to send is present.
	Configured() bool
}

// Sender is the From identity shared by all transports.
type Sender struct {
	Address string
	Name    string
}
