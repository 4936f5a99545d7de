package invitation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ZachHandley/JellyAppwriteAuth/pkg/appwrite"
	"github.com/ZachHandley/JellyAppwriteAuth/pkg/config"
	"github.com/ZachHandley/JellyAppwriteAuth/pkg/emailtemplate"
	"github.com/ZachHandley/JellyAppwriteAuth/pkg/notification"
	"github.com/ZachHandley/JellyAppwriteAuth/pkg/utils"
)

// Warning records a swallowed best-effort failure. Provisioning the Appwrite
// account never blocks the email send; the warning keeps the failure
// observable to callers and tests.
type Warning struct {
	Stage string
	Err   error
}

// Service orchestrates invitation and password-reset emails: it generates a
// temporary credential, best-effort provisions the Appwrite account, renders
// the branded template and dispatches it through the configured channel.
type Service struct {
	client    *appwrite.Client
	sender    notification.Sender
	branding  config.BrandingConfig
	templates config.TemplateConfig
}

// NewService creates an invitation service. The Appwrite client may lack an
// API key, in which case account provisioning is skipped entirely.
func NewService(client *appwrite.Client, sender notification.Sender, branding config.BrandingConfig, templates config.TemplateConfig) *Service {
	return &Service{
		client:    client,
		sender:    sender,
		branding:  branding,
		templates: templates,
	}
}

// Invite generates a one-time temporary password, best-effort creates the
// Appwrite account with it, and emails the invitation. Only a failed email
// send fails the operation; provisioning errors come back as warnings.
func (s *Service) Invite(ctx context.Context, email string) ([]Warning, error) {
	tempPassword, err := utils.GenerateTempPassword()
	if err != nil {
		return nil, err
	}

	var warnings []Warning
	if s.client.HasAPIKey() {
		_, err := s.client.CreateUser(ctx, email, tempPassword)
		if err != nil && !errors.Is(err, appwrite.ErrAlreadyExists) {
			slog.Warn("Failed to provision Appwrite account for invite", "email", email, "err", err)
			warnings = append(warnings, Warning{Stage: "provision", Err: err})
		}
	}

	html := s.templates.InviteHTML
	if html == "" {
		html = emailtemplate.DefaultInviteHTML()
	}
	if err := s.dispatch(ctx, email, s.templates.InviteSubject, html, tempPassword); err != nil {
		return warnings, err
	}
	return warnings, nil
}

// ResetPassword generates a one-time temporary password, best-effort updates
// the Appwrite account to it, and emails the reset notice. Only a failed
// email send fails the operation.
func (s *Service) ResetPassword(ctx context.Context, email string) ([]Warning, error) {
	tempPassword, err := utils.GenerateTempPassword()
	if err != nil {
		return nil, err
	}

	var warnings []Warning
	if s.client.HasAPIKey() {
		if err := s.updatePassword(ctx, email, tempPassword); err != nil {
			slog.Warn("Failed to update Appwrite password for reset", "email", email, "err", err)
			warnings = append(warnings, Warning{Stage: "provision", Err: err})
		}
	}

	html := s.templates.ResetHTML
	if html == "" {
		html = emailtemplate.DefaultResetHTML()
	}
	if err := s.dispatch(ctx, email, s.templates.ResetSubject, html, tempPassword); err != nil {
		return warnings, err
	}
	return warnings, nil
}

// SendTest renders and sends the test template so an administrator can check
// channel configuration. No credential is generated and no account touched.
func (s *Service) SendTest(ctx context.Context, email string) error {
	html := s.templates.TestHTML
	if html == "" {
		html = emailtemplate.DefaultTestHTML()
	}
	return s.dispatch(ctx, email, s.templates.TestSubject, html, "")
}

func (s *Service) updatePassword(ctx context.Context, email, password string) error {
	user, err := s.client.SearchUserByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to locate user for password update: %w", err)
	}
	return s.client.UpdatePassword(ctx, user.ID, password)
}

// dispatch renders the template with the attachment mode matching the active
// channel and sends it. A send failure is the operation's failure.
func (s *Service) dispatch(ctx context.Context, email, subject, html, tempPassword string) error {
	rendered := emailtemplate.Render(html, s.branding, email, tempPassword, notification.PreferInlineCid(s.sender))
	if err := s.sender.Send(ctx, email, subject, rendered.HTML, rendered.InlineLogo); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", email, err)
	}
	return nil
}
