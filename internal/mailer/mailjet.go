package mailer

import (
	"context"
	"fmt"

	mailjet "github.com/mailjet/mailjet-apiv3-go"
)

// MailjetMailer sends through the Mailjet v3.1 send API.
type MailjetMailer struct {
	sender     Sender
	publicKey  string
	privateKey string
	send       func(*mailjet.MessagesV31) error
}

func NewMailjetMailer(sender Sender, publicKey, privateKey string) *MailjetMailer {
	m := &MailjetMailer{sender: sender, publicKey: publicKey, privateKey: privateKey}
	m.send = func(msgs *mailjet.MessagesV31) error {
		clt := mailjet.NewMailjetClient(m.publicKey, m.privateKey)
		_, err := clt.SendMailV31(msgs)
		return err
	}
	return m
}

func (m *MailjetMailer) Configured() bool {
	return m.publicKey != "" && m.privateKey != ""
}

func (m *MailjetMailer) Send(ctx context.Context, msg Message) error {
	if !m.Configured() {
		return ErrNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	info := []mailjet.InfoMessagesV31{{
		From:     &mailjet.RecipientV31{Email: m.sender.Address, Name: m.sender.Name},
		To:       &mailjet.RecipientsV31{mailjet.RecipientV31{Email: msg.To}},
		Subject:  msg.Subject,
		HTMLPart: msg.HTML,
	}}
	if err := m.send(&mailjet.MessagesV31{Info: info}); err != nil {
		return fmt.Errorf("could not send mail: %w", err)
	}
	return nil
}
