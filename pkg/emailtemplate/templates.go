package emailtemplate

import (
	"embed"
	"log/slog"
)

//go:embed templates/*
var templateFiles embed.FS

func loadTemplate(filename string) string {
	content, err := templateFiles.ReadFile(filename)
	if err != nil {
		slog.Error("Error reading template file!", "err", err, "filename", filename)
		return ""
	}
	return string(content)
}

// DefaultInviteHTML returns the embedded default invite template.
func DefaultInviteHTML() string {
	return loadTemplate("templates/invite.html")
}

// DefaultResetHTML returns the embedded default password-reset template.
func DefaultResetHTML() string {
	return loadTemplate("templates/reset.html")
}

// DefaultTestHTML returns the embedded default test-email template.
func DefaultTestHTML() string {
	return loadTemplate("templates/test.html")
}
