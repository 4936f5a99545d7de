package notification

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/ZachHandley/JellyAppwriteAuth/pkg/appwrite"
	"github.com/ZachHandley/JellyAppwriteAuth/pkg/config"
	"github.com/ZachHandley/JellyAppwriteAuth/pkg/emailtemplate"
	"github.com/ZachHandley/JellyAppwriteAuth/pkg/utils"
)

const (
	// ProviderID is the fixed id of the SMTP-backed messaging provider the
	// bridge registers on Appwrite.
	ProviderID = "jellyfin_smtp"
	// ProviderName is the display name of the registered provider.
	ProviderName = "Jellyfin SMTP"

	providerCacheKey = "provider_ensured"
)

// MessagingSender delivers emails through Appwrite Messaging. It registers
// an SMTP provider from the bridge's SMTP settings when none exists and
// resolves (or creates) an Appwrite user record for the recipient. On any
// messaging failure the whole send is silently delegated to the internal
// SMTP sender, so the caller only ever sees the fallback outcome.
type MessagingSender struct {
	client   *appwrite.Client
	smtpCfg  config.SMTPConfig
	fromName string
	fallback Sender

	// once the provider registration is confirmed there is no need to ask
	// the server again for every send
	ensured *gocache.Cache
}

// NewMessagingSender creates a messaging sender with an SMTP fallback built
// from the same settings used for provider registration.
func NewMessagingSender(client *appwrite.Client, smtpCfg config.SMTPConfig, brandName string) (*MessagingSender, error) {
	fallback, err := NewSMTPSender(smtpCfg)
	if err != nil {
		return nil, err
	}

	fromName := strings.TrimSpace(brandName)
	if fromName == "" {
		fromName = emailtemplate.DefaultBrandName
	}

	return &MessagingSender{
		client:   client,
		smtpCfg:  smtpCfg,
		fromName: fromName,
		fallback: fallback,
		ensured:  gocache.New(time.Hour, 2*time.Hour),
	}, nil
}

// Send attempts delivery through Appwrite Messaging and falls back to SMTP
// on any failure.
func (s *MessagingSender) Send(ctx context.Context, toEmail, subject, html string, inline *emailtemplate.Attachment) error {
	if err := s.sendManaged(ctx, toEmail, subject, html); err != nil {
		slog.Warn("Messaging send failed, falling back to SMTP", "to", toEmail, "err", err)
		return s.fallback.Send(ctx, toEmail, subject, html, inline)
	}
	return nil
}

func (s *MessagingSender) sendManaged(ctx context.Context, toEmail, subject, html string) error {
	if err := s.ensureProvider(ctx); err != nil {
		return err
	}

	userID, err := s.ensureRecipient(ctx, toEmail)
	if err != nil {
		return err
	}

	return s.client.CreateEmail(ctx, subject, html, []string{userID})
}

// ensureProvider makes sure the SMTP messaging provider is registered.
// "Already exists" counts as success; the registration is never updated.
func (s *MessagingSender) ensureProvider(ctx context.Context) error {
	if _, ok := s.ensured.Get(providerCacheKey); ok {
		return nil
	}

	_, err := s.client.GetProvider(ctx, ProviderID)
	if err != nil {
		err = s.client.CreateSMTPProvider(ctx, ProviderID, ProviderName, s.smtpCfg, s.fromName)
		if err != nil && !errors.Is(err, appwrite.ErrAlreadyExists) {
			return err
		}
	}

	s.ensured.SetDefault(providerCacheKey, true)
	return nil
}

// ensureRecipient resolves the Appwrite user record for the destination
// email, creating one with a fresh random password when none exists.
func (s *MessagingSender) ensureRecipient(ctx context.Context, email string) (string, error) {
	user, err := s.client.SearchUserByEmail(ctx, email)
	if err == nil {
		return user.ID, nil
	}

	password, err := utils.GenerateTempPassword()
	if err != nil {
		return "", err
	}
	return s.client.CreateUser(ctx, email, password)
}
