package config

import (
	"fmt"
	"strings"
)

// Channel selects the delivery channel for outgoing notification emails.
type Channel string

const (
	// ChannelSMTP sends directly through the configured SMTP server.
	ChannelSMTP Channel = "smtp"
	// ChannelMessaging sends through Appwrite Messaging, falling back to SMTP.
	ChannelMessaging Channel = "messaging"
)

// AppwriteConfig holds the connection settings for the Appwrite project.
// The API key is optional; without it the bridge cannot resolve users
// server-side and falls back to treating login identifiers as emails.
type AppwriteConfig struct {
	Endpoint string `env:"APPWRITE_ENDPOINT" env-default:""`
	Project  string `env:"APPWRITE_PROJECT" env-default:""`
	APIKey   string `env:"APPWRITE_API_KEY" env-default:""`
}

// HasAPIKey reports whether an administrative API key is configured.
func (a AppwriteConfig) HasAPIKey() bool {
	return strings.TrimSpace(a.APIKey) != ""
}

// Validate checks the settings required for any provider-side operation.
func (a AppwriteConfig) Validate() error {
	if strings.TrimSpace(a.Endpoint) == "" {
		return fmt.Errorf("appwrite endpoint is not configured")
	}
	if strings.TrimSpace(a.Project) == "" {
		return fmt.Errorf("appwrite project id is not configured")
	}
	return nil
}

// SMTPConfig holds SMTP submission settings. These are also used to register
// the Appwrite Messaging provider when the messaging channel is selected.
type SMTPConfig struct {
	Host     string `env:"SMTP_HOST" env-default:""`
	Port     int    `env:"SMTP_PORT" env-default:"587"`
	Username string `env:"SMTP_USERNAME" env-default:""`
	Password string `env:"SMTP_PASSWORD" env-default:""`
	From     string `env:"SMTP_FROM" env-default:""`
	TLS      bool   `env:"SMTP_TLS" env-default:"true"`
}

// BrandingConfig holds the values substituted into email templates.
type BrandingConfig struct {
	Name         string `env:"BRAND_NAME" env-default:""`
	LogoRef      string `env:"BRAND_LOGO" env-default:""`
	PrimaryColor string `env:"BRAND_PRIMARY_COLOR" env-default:""`
	LoginURL     string `env:"BRAND_LOGIN_URL" env-default:""`
}

// TemplateConfig holds the subjects and HTML bodies for the notification
// emails. Empty bodies fall back to the embedded defaults.
type TemplateConfig struct {
	InviteSubject string `env:"INVITE_EMAIL_SUBJECT" env-default:"You're invited to Jellyfin"`
	InviteHTML    string `env:"INVITE_EMAIL_HTML" env-default:""`
	ResetSubject  string `env:"RESET_EMAIL_SUBJECT" env-default:"Your Jellyfin password has been reset"`
	ResetHTML     string `env:"RESET_EMAIL_HTML" env-default:""`
	TestSubject   string `env:"TEST_EMAIL_SUBJECT" env-default:"Test email"`
	TestHTML      string `env:"TEST_EMAIL_HTML" env-default:""`
}

// BridgeConfig is the full read-only configuration snapshot for the bridge.
type BridgeConfig struct {
	Appwrite  AppwriteConfig
	SMTP      SMTPConfig
	Branding  BrandingConfig
	Templates TemplateConfig

	Channel                  Channel `env:"EMAIL_CHANNEL" env-default:"messaging"`
	MarkEmailVerifiedOnLogin bool    `env:"MARK_EMAIL_VERIFIED_ON_LOGIN" env-default:"true"`
}

// Validate checks channel selection and provider settings.
func (c BridgeConfig) Validate() error {
	switch c.Channel {
	case ChannelSMTP, ChannelMessaging:
	default:
		return fmt.Errorf("unknown email channel: %q", c.Channel)
	}
	return c.Appwrite.Validate()
}
