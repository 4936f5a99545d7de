package appwrite

import (
	"context"
	"net/http"
	"net/url"

	"github.com/google/uuid"

	"github.com/ZachHandley/JellyAppwriteAuth/pkg/config"
)

// Provider is the subset of an Appwrite Messaging provider record used by
// the bridge.
type Provider struct {
	ID      string `json:"$id"`
	Name    string `json:"name"`
	Enabled bool   `json:"enabled"`
}

// GetProvider fetches a messaging provider by id. Returns an error wrapping
// ErrNotFound when the provider has not been registered yet.
func (c *Client) GetProvider(ctx context.Context, providerID string) (Provider, error) {
	var p Provider
	err := c.do(ctx, http.MethodGet, "/messaging/providers/"+url.PathEscape(providerID), nil, &p, nil)
	if err != nil {
		return Provider{}, err
	}
	return p, nil
}

// CreateSMTPProvider registers an SMTP-backed messaging provider from the
// bridge's SMTP settings. Returns an error wrapping ErrAlreadyExists when a
// provider with the same id is already registered; callers treat that as
// success.
func (c *Client) CreateSMTPProvider(ctx context.Context, providerID, name string, smtp config.SMTPConfig, fromName string) error {
	encryption := "none"
	if smtp.TLS {
		encryption = "ssl"
	}
	body := map[string]any{
		"providerId": providerID,
		"name":       name,
		"host":       smtp.Host,
		"port":       smtp.Port,
		"username":   smtp.Username,
		"password":   smtp.Password,
		"encryption": encryption,
		"autoTLS":    true,
		"fromName":   fromName,
		"fromEmail":  smtp.From,
		"enabled":    true,
	}
	return c.do(ctx, http.MethodPost, "/messaging/providers/smtp", body, nil, nil)
}

// CreateEmail sends an HTML email to the given Appwrite users through the
// registered messaging provider.
func (c *Client) CreateEmail(ctx context.Context, subject, html string, userIDs []string) error {
	body := map[string]any{
		"messageId": uuid.NewString(),
		"subject":   subject,
		"content":   html,
		"users":     userIDs,
		"html":      true,
	}
	return c.do(ctx, http.MethodPost, "/messaging/messages/email", body, nil, nil)
}
