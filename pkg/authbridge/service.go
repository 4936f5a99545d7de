package authbridge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ZachHandley/JellyAppwriteAuth/pkg/appwrite"
)

var (
	// ErrMisconfigured indicates the Appwrite endpoint or project is missing.
	ErrMisconfigured = errors.New("authbridge: appwrite endpoint or project not configured")
	// ErrUserNotFound indicates the login identifier resolved to no Appwrite user.
	ErrUserNotFound = errors.New("authbridge: user not found")
	// ErrInvalidCredentials indicates the password check failed.
	ErrInvalidCredentials = errors.New("authbridge: invalid credentials")
)

// AuthResult is the outcome of a successful authentication. Warnings carry
// swallowed best-effort failures such as a failed verification marking.
type AuthResult struct {
	Username    string
	DisplayName string
	Warnings    []string
}

// Service bridges the host's local user directory to Appwrite. Appwrite is
// the source of truth for passwords; the local directory is a projection
// keyed by a name derived deterministically from the login identifier, so
// repeated logins by the same person always map to the same local user.
type Service struct {
	client              *appwrite.Client
	directory           UserDirectory
	markVerifiedOnLogin bool
}

// Option configures a Service.
type Option func(*Service)

// WithMarkVerifiedOnLogin enables marking the Appwrite account's email as
// verified after each successful login.
func WithMarkVerifiedOnLogin(enabled bool) Option {
	return func(s *Service) {
		s.markVerifiedOnLogin = enabled
	}
}

// NewService creates an authentication bridge. The client may be nil when
// the Appwrite connection settings are missing; Authenticate then rejects
// every attempt as misconfigured.
func NewService(client *appwrite.Client, directory UserDirectory, opts ...Option) *Service {
	s := &Service{
		client:    client,
		directory: directory,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Authenticate resolves the login identifier to an Appwrite identity,
// validates the password, and locates or creates the matching local user.
// Rejections surface as ErrMisconfigured, ErrUserNotFound or
// ErrInvalidCredentials; the HTTP layer collapses the latter two into one
// indistinguishable response. Any other error is an authentication failure
// with no partial outcome: the local user is only touched after the
// password check succeeded.
func (s *Service) Authenticate(ctx context.Context, identifier, password string) (AuthResult, error) {
	if s.client == nil {
		return AuthResult{}, ErrMisconfigured
	}

	isEmailLogin := strings.Contains(identifier, "@")

	email, externalID, err := s.resolveIdentity(ctx, identifier, isEmailLogin)
	if err != nil {
		return AuthResult{}, err
	}

	sessionUserID, ok := s.client.ValidateCredentials(ctx, email, password)
	if !ok {
		if err := ctx.Err(); err != nil {
			return AuthResult{}, fmt.Errorf("authentication cancelled: %w", err)
		}
		return AuthResult{}, ErrInvalidCredentials
	}

	// Self-lookup via the just-validated session; an unknown id stays
	// unknown and only skips the verification marking below.
	if externalID == "" {
		externalID = sessionUserID
	}

	username := identifier
	if isEmailLogin {
		username = email
	}

	user, err := s.directory.GetUserByName(ctx, username)
	if err != nil {
		return AuthResult{}, fmt.Errorf("failed to look up local user %s: %w", username, err)
	}
	if user == nil {
		user, err = s.directory.CreateUser(ctx, username)
		if err != nil {
			return AuthResult{}, fmt.Errorf("failed to create local user %s: %w", username, err)
		}
	}

	result := AuthResult{
		Username:    user.Username,
		DisplayName: user.Username,
	}

	if s.markVerifiedOnLogin && externalID != "" && s.client.HasAPIKey() {
		if err := s.client.UpdateEmailVerification(ctx, externalID, true); err != nil {
			slog.Warn("Failed to mark email verified", "userId", externalID, "err", err)
			result.Warnings = append(result.Warnings, fmt.Sprintf("mark email verified: %v", err))
		}
	}

	return result, nil
}

// resolveIdentity maps the login identifier to the Appwrite email (and id,
// when known). Identifiers containing '@' are treated as emails and looked
// up by search. Anything else is tried as an Appwrite id first; a failed id
// lookup falls back to an email search with the identifier verbatim. That
// fallback deliberately does not distinguish "not found" from a transport
// error, matching the provider-side behavior the bridge replaces. Without
// an API key no server-side resolution is possible and the identifier is
// used verbatim as the email.
func (s *Service) resolveIdentity(ctx context.Context, identifier string, isEmailLogin bool) (email, externalID string, err error) {
	if !s.client.HasAPIKey() {
		return identifier, "", nil
	}

	if isEmailLogin {
		user, err := s.client.SearchUserByEmail(ctx, identifier)
		if err != nil {
			return "", "", fmt.Errorf("%w: %v", ErrUserNotFound, err)
		}
		return user.Email, user.ID, nil
	}

	user, err := s.client.GetUser(ctx, identifier)
	if err != nil {
		user, err = s.client.SearchUserByEmail(ctx, identifier)
		if err != nil {
			return "", "", fmt.Errorf("%w: %v", ErrUserNotFound, err)
		}
	}
	return user.Email, user.ID, nil
}

// ResolveEmail maps a login identifier to its Appwrite email. It never
// returns an error: an unresolvable identifier yields the empty string.
func (s *Service) ResolveEmail(ctx context.Context, identifier string) string {
	if s.client == nil {
		return ""
	}

	isEmailLogin := strings.Contains(identifier, "@")
	if !s.client.HasAPIKey() {
		if isEmailLogin {
			return identifier
		}
		return ""
	}

	email, _, err := s.resolveIdentity(ctx, identifier, isEmailLogin)
	if err != nil {
		slog.Debug("Failed to resolve email", "identifier", identifier, "err", err)
		return ""
	}
	return email
}
