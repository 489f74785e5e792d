package services

import (
	"context"
	"io"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/yoockh/volunteerhub/internal/mailer"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

type fakeMailer struct {
	mu         sync.Mutex
	configured bool
	failOn     string
	err        error
	sent       []mailer.Message
}

func (m *fakeMailer) Configured() bool { return m.configured }

func (m *fakeMailer) Send(_ context.Context, msg mailer.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.configured {
		return mailer.ErrNotConfigured
	}
	if m.failOn != "" && msg.To == m.failOn {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *fakeMailer) recipients() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.sent))
	for _, msg := range m.sent {
		out = append(out, msg.To)
	}
	return out
}
