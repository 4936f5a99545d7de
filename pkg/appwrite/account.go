package appwrite

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
)

// session is the subset of the Appwrite session object the bridge uses.
// The secret is only present when the session was created server-side and
// is needed solely to discard the session again.
type session struct {
	ID     string `json:"$id"`
	UserID string `json:"userId"`
	Secret string `json:"secret"`
}

// ValidateCredentials checks an email/password pair by creating an email
// session and immediately discarding it. No session artifact is retained;
// a failure to discard is swallowed since the session expires on its own.
// The user id reported by the session is returned when available so callers
// can avoid a second lookup; an empty id means unknown. Any transport or
// credential error yields ok == false.
func (c *Client) ValidateCredentials(ctx context.Context, email, password string) (userID string, ok bool) {
	body := map[string]any{
		"email":    email,
		"password": password,
	}
	var sess session
	if err := c.do(ctx, http.MethodPost, "/account/sessions/email", body, &sess, nil); err != nil {
		slog.Debug("Credential validation failed", "email", email, "err", err)
		return "", false
	}

	c.discardSession(ctx, sess)
	return sess.UserID, true
}

// discardSession deletes a session created during credential validation.
// Errors are logged and ignored.
func (c *Client) discardSession(ctx context.Context, sess session) {
	if sess.ID == "" {
		return
	}
	headers := map[string]string{}
	if sess.Secret != "" {
		headers["X-Appwrite-Session"] = sess.Secret
	}
	err := c.do(ctx, http.MethodDelete, "/account/sessions/"+url.PathEscape(sess.ID), nil, nil, headers)
	if err != nil {
		slog.Debug("Failed to discard validation session", "session", sess.ID, "err", err)
	}
}
