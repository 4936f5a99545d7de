package notification

import (
	"context"

	"github.com/ZachHandley/JellyAppwriteAuth/pkg/emailtemplate"
)

// SentMessage records one Send call for assertions in tests.
type SentMessage struct {
	To      string
	Subject string
	HTML    string
	Inline  *emailtemplate.Attachment
}

// MockSender is a Sender implementation for testing. It records every send
// and returns the configured error.
type MockSender struct {
	Sent []SentMessage
	Err  error
}

func (m *MockSender) Send(_ context.Context, toEmail, subject, html string, inline *emailtemplate.Attachment) error {
	m.Sent = append(m.Sent, SentMessage{
		To:      toEmail,
		Subject: subject,
		HTML:    html,
		Inline:  inline,
	})
	return m.Err
}
