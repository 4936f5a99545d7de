package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/mail"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/ZachHandley/JellyAppwriteAuth/pkg/authbridge"
	"github.com/ZachHandley/JellyAppwriteAuth/pkg/invitation"
)

// Handler exposes the bridge's inbound boundary: authentication, the two
// notification operations, the test email and the email-resolution lookup.
type Handler struct {
	auth    *authbridge.Service
	invites *invitation.Service
}

// NewHandler creates the API handler.
func NewHandler(auth *authbridge.Service, invites *invitation.Service) *Handler {
	return &Handler{
		auth:    auth,
		invites: invites,
	}
}

// Routes mounts the handler's endpoints on a chi router.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/authenticate", h.Authenticate)
	r.Post("/invite", h.Invite)
	r.Post("/reset", h.ResetPassword)
	r.Post("/test-email", h.SendTest)
	r.Get("/resolve-email", h.ResolveEmail)
}

// Authenticate handles POST /authenticate. Rejected logins yield one
// indistinguishable response whether the user was unknown or the password
// wrong, so the endpoint cannot be used for identity enumeration.
func (h *Handler) Authenticate(w http.ResponseWriter, r *http.Request) {
	var req AuthenticateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{Error: "Invalid request body"})
		return
	}
	if req.Identifier == "" || req.Password == "" {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{Error: "Identifier and password are required"})
		return
	}

	result, err := h.auth.Authenticate(r.Context(), req.Identifier, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, authbridge.ErrMisconfigured):
			render.Status(r, http.StatusServiceUnavailable)
			render.JSON(w, r, ErrorResponse{Error: "Authentication is not configured"})
		case errors.Is(err, authbridge.ErrUserNotFound), errors.Is(err, authbridge.ErrInvalidCredentials):
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, ErrorResponse{Error: "Invalid credentials"})
		default:
			slog.Error("Authentication failed unexpectedly", "error", err)
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, ErrorResponse{Error: "An error occurred during authentication"})
		}
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, AuthenticateResponse{
		Username:    result.Username,
		DisplayName: result.DisplayName,
	})
}

// Invite handles POST /invite.
func (h *Handler) Invite(w http.ResponseWriter, r *http.Request) {
	h.sendEmail(w, r, "Invitation sent", h.invites.Invite)
}

// ResetPassword handles POST /reset.
func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	h.sendEmail(w, r, "Password reset email sent", h.invites.ResetPassword)
}

// SendTest handles POST /test-email.
func (h *Handler) SendTest(w http.ResponseWriter, r *http.Request) {
	h.sendEmail(w, r, "Test email sent", func(ctx context.Context, email string) ([]invitation.Warning, error) {
		return nil, h.invites.SendTest(ctx, email)
	})
}

func (h *Handler) sendEmail(w http.ResponseWriter, r *http.Request, message string, op func(ctx context.Context, email string) ([]invitation.Warning, error)) {
	var req EmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{Error: "Invalid request body"})
		return
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{Error: "A valid email address is required"})
		return
	}

	warnings, err := op(r.Context(), req.Email)
	if err != nil {
		slog.Error("Failed to send email", "email", req.Email, "error", err)
		render.Status(r, http.StatusBadGateway)
		render.JSON(w, r, ErrorResponse{Error: "Failed to deliver email"})
		return
	}

	resp := EmailResponse{Message: message}
	for _, warning := range warnings {
		resp.Warnings = append(resp.Warnings, fmt.Sprintf("%s: %v", warning.Stage, warning.Err))
	}
	render.Status(r, http.StatusOK)
	render.JSON(w, r, resp)
}

// ResolveEmail handles GET /resolve-email?identifier=... It never fails:
// unresolvable identifiers yield a null email.
func (h *Handler) ResolveEmail(w http.ResponseWriter, r *http.Request) {
	identifier := r.URL.Query().Get("identifier")
	if identifier == "" {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{Error: "Identifier is required"})
		return
	}

	email := h.auth.ResolveEmail(r.Context(), identifier)
	resp := ResolveEmailResponse{}
	if email != "" {
		resp.Email = &email
	}
	render.Status(r, http.StatusOK)
	render.JSON(w, r, resp)
}
