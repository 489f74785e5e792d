package mailer

import (
	"context"
	"errors"
	"testing"

	mailjet "github.com/mailjet/mailjet-apiv3-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMailjetMailerSend(t *testing.T) {
	m := NewMailjetMailer(testSender, "pub", "priv")

	var got *mailjet.MessagesV31
	m.send = func(msgs *mailjet.MessagesV31) error {
		got = msgs
		return nil
	}

	require.NoError(t, m.Send(context.Background(), Message{To: "ana@example.org", Subject: "Welcome", HTML: "<p>hi</p>"}))
	require.NotNil(t, got)
	require.Len(t, got.Info, 1)

	info := got.Info[0]
	assert.Equal(t, "noreply@example.org", info.From.Email)
	assert.Equal(t, "Volunteer Team", info.From.Name)
	require.Len(t, *info.To, 1)
	assert.Equal(t, "ana@example.org", (*info.To)[0].Email)
	assert.Equal(t, "Welcome", info.Subject)
	assert.Equal(t, "<p>hi</p>", info.HTMLPart)
}

func TestMailjetMailerErrors(t *testing.T) {
	m := NewMailjetMailer(testSender, "", "")
	assert.False(t, m.Configured())
	assert.ErrorIs(t, m.Send(context.Background(), Message{To: "a@b.c"}), ErrNotConfigured)

	m = NewMailjetMailer(testSender, "pub", "priv")
	boom := errors.New("401")
	m.send = func(*mailjet.MessagesV31) error { return boom }
	assert.ErrorIs(t, m.Send(context.Background(), Message{To: "a@b.c"}), boom)
}
