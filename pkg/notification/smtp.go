package notification

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"time"

	"github.com/wneessen/go-mail"

	"github.com/ZachHandley/JellyAppwriteAuth/pkg/config"
	"github.com/ZachHandley/JellyAppwriteAuth/pkg/emailtemplate"
)

// SMTPSender delivers emails directly through the configured SMTP server.
// It is the terminal channel: transport errors propagate to the caller with
// no further fallback.
type SMTPSender struct {
	cfg    config.SMTPConfig
	client *mail.Client
}

// NewSMTPSender creates an SMTP sender from the bridge's SMTP settings.
func NewSMTPSender(cfg config.SMTPConfig) (*SMTPSender, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTimeout(30 * time.Second),
	}

	// Only add authentication if username and password are provided
	if cfg.Username != "" && cfg.Password != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthLogin),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	if !cfg.TLS {
		opts = append(opts,
			mail.WithTLSConfig(&tls.Config{
				InsecureSkipVerify: true, // Skip hostname verification
			}),
			mail.WithTLSPolicy(mail.NoTLS),
		)
	} else {
		opts = append(opts,
			mail.WithTLSConfig(&tls.Config{
				InsecureSkipVerify: true,
			}),
			mail.WithTLSPolicy(mail.TLSMandatory),
		)
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		slog.Error("Failed to create mail client", "err", err)
		return nil, err
	}

	return &SMTPSender{cfg: cfg, client: client}, nil
}

// Send builds the mail message and submits it. With an inline attachment the
// HTML body references the embedded part by its content-id; otherwise the
// HTML is sent as the plain body.
func (s *SMTPSender) Send(ctx context.Context, toEmail, subject, html string, inline *emailtemplate.Attachment) error {
	msg := mail.NewMsg()
	if err := msg.From(s.cfg.From); err != nil {
		return fmt.Errorf("failed to set from address: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return fmt.Errorf("failed to set to address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, html)

	if inline != nil {
		err := msg.EmbedReader(inline.ContentID, bytes.NewReader(inline.Bytes),
			mail.WithFileContentID(inline.ContentID),
			mail.WithFileContentType(mail.ContentType(inline.MediaType)),
		)
		if err != nil {
			return fmt.Errorf("failed to embed inline attachment: %w", err)
		}
	}

	if err := s.client.DialAndSendWithContext(ctx, msg); err != nil {
		slog.Error("Failed to send email", "to", toEmail, "host", s.cfg.Host, "err", err)
		return fmt.Errorf("smtp send failed: %w", err)
	}

	slog.Info("Email sent", "to", toEmail, "host", s.cfg.Host, "port", s.cfg.Port)
	return nil
}
