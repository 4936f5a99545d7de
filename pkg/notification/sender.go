package notification

import (
	"context"

	"github.com/ZachHandley/JellyAppwriteAuth/pkg/emailtemplate"
)

// Sender delivers a rendered notification email to a single recipient.
// The inline attachment, when present, is consumed by exactly one send.
// Implementations are SMTPSender and MessagingSender; MessagingSender falls
// back to SMTP internally, so callers never need fallback logic of their own.
type Sender interface {
	Send(ctx context.Context, toEmail, subject, html string, inline *emailtemplate.Attachment) error
}

// PreferInlineCid reports the attachment mode a renderer should use for this
// sender. SMTP embeds the logo as a CID-linked MIME part; Appwrite
// Messaging's HTML renderer is not reliable with linked attachments, so the
// messaging channel uses data URLs instead.
func PreferInlineCid(s Sender) bool {
	_, managed := s.(*MessagingSender)
	return !managed
}
