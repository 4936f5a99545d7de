package emailtemplate

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZachHandley/JellyAppwriteAuth/pkg/config"
)

const (
	// DefaultBrandName is substituted when no brand name is configured.
	DefaultBrandName = "Jellyfin"
	// DefaultPrimaryColor is substituted when no brand color is configured.
	DefaultPrimaryColor = "#6C63FF"
	// LogoContentID is the fixed content-id used for CID-embedded logos.
	LogoContentID = "logoImage"
)

// Attachment is a binary part to be embedded inline in the outgoing email,
// referenced from the HTML body by its content-id. It is produced by at most
// one render call and consumed by exactly one send.
type Attachment struct {
	ContentID string
	MediaType string
	Bytes     []byte
}

// Rendered is the outcome of rendering a template: the final HTML body and
// an optional inline logo attachment.
type Rendered struct {
	HTML       string
	InlineLogo *Attachment
}

// Render substitutes the template tokens {{brandName}}, {{primaryColor}},
// {{loginUrl}}, {{email}}, {{password}} and {{logo}} with HTML-escaped
// values. The logo reference is resolved as follows: when it names an
// existing local file its bytes are either attached inline (preferInlineCid,
// the SMTP-friendly mode) and referenced as cid:logoImage, or embedded as a
// base64 data URL; any other reference is substituted verbatim. Render is
// deterministic and has no side effects beyond reading the logo file.
func Render(template string, branding config.BrandingConfig, email, password string, preferInlineCid bool) Rendered {
	brandName := strings.TrimSpace(branding.Name)
	if brandName == "" {
		brandName = DefaultBrandName
	}
	primaryColor := strings.TrimSpace(branding.PrimaryColor)
	if primaryColor == "" {
		primaryColor = DefaultPrimaryColor
	}
	loginURL := strings.TrimSpace(branding.LoginURL)

	logoRef := strings.TrimSpace(branding.LogoRef)
	var inlineLogo *Attachment

	if logoRef != "" {
		if data, err := os.ReadFile(logoRef); err == nil {
			mediaType := guessMediaType(logoRef)
			if preferInlineCid {
				logoRef = "cid:" + LogoContentID
				inlineLogo = &Attachment{
					ContentID: LogoContentID,
					MediaType: mediaType,
					Bytes:     data,
				}
			} else {
				logoRef = "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data)
			}
		}
	}

	replacer := strings.NewReplacer(
		"{{brandName}}", escape(brandName),
		"{{primaryColor}}", escape(primaryColor),
		"{{loginUrl}}", escape(loginURL),
		"{{email}}", escape(email),
		"{{password}}", escape(password),
		"{{logo}}", escape(logoRef),
	)

	return Rendered{
		HTML:       replacer.Replace(template),
		InlineLogo: inlineLogo,
	}
}

// escape performs the minimal HTML content/attribute escaping the templates
// need.
func escape(value string) string {
	return strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
	).Replace(value)
}

func guessMediaType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	case ".svg":
		return "image/svg+xml"
	default:
		return "application/octet-stream"
	}
}
