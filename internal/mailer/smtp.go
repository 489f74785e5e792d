package mailer

import (
	"context"
	"fmt"
	"strings"

	"github.com/wneessen/go-mail"
)

type sendFunc func(ctx context.Context, msg *mail.Msg) error

// SMTPMailer authenticates with the sender address and password (for
// example a Gmail app password). Port 465 uses implicit TLS; any other
// port upgrades with STARTTLS when the server offers it.
type SMTPMailer struct {
	sender   Sender
	password string
	host     string
	port     int
	send     sendFunc
}

func NewSMTPMailer(sender Sender, password, host string, port int) *SMTPMailer {
	m := &SMTPMailer{
		sender:   sender,
		password: password,
		host:     host,
		port:     port,
	}
	m.send = m.dialAndSend
	return m
}

func (m *SMTPMailer) Configured() bool {
	return strings.TrimSpace(m.password) != ""
}

func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if !m.Configured() {
		return ErrNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	out, err := m.compose(msg)
	if err != nil {
		return err
	}
	return m.send(ctx, out)
}

func (m *SMTPMailer) compose(msg Message) (*mail.Msg, error) {
	out := mail.NewMsg()
	if err := out.FromFormat(m.sender.Name, m.sender.Address); err != nil {
		return nil, fmt.Errorf("invalid sender %q: %w", m.sender.Address, err)
	}
	if err := out.To(msg.To); err != nil {
		return nil, fmt.Errorf("invalid recipient %q: %w", msg.To, err)
	}
	out.Subject(msg.Subject)
	out.SetDate()
	out.SetMessageID()
	out.SetBodyString(mail.TypeTextHTML, msg.HTML)
	return out, nil
}

func (m *SMTPMailer) dialAndSend(ctx context.Context, msg *mail.Msg) error {
	opts := []mail.Option{
		mail.WithPort(m.port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.sender.Address),
		mail.WithPassword(m.password),
	}
	if m.port == 465 {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSOpportunistic))
	}

	client, err := mail.NewClient(m.host, opts...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	return client.DialAndSendWithContext(ctx, msg)
}
