package api

// AuthenticateRequest is the login request body.
type AuthenticateRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// AuthenticateResponse is returned on successful authentication.
type AuthenticateResponse struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
}

// EmailRequest is the body for the invite, reset and test-email operations.
type EmailRequest struct {
	Email string `json:"email"`
}

// EmailResponse reports the outcome of a notification operation. Warnings
// list swallowed provisioning failures; the email itself was sent.
type EmailResponse struct {
	Message  string   `json:"message"`
	Warnings []string `json:"warnings,omitempty"`
}

// ResolveEmailResponse carries the resolved email, or null when the
// identifier could not be resolved.
type ResolveEmailResponse struct {
	Email *string `json:"email"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}
