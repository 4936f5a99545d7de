package emailtemplate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZachHandley/JellyAppwriteAuth/pkg/config"
)

const allTokensTemplate = `<html><body style="color:{{primaryColor}}">` +
	`<img src="{{logo}}"><h1>{{brandName}}</h1>` +
	`<p>{{email}} / {{password}}</p><a href="{{loginUrl}}">login</a></body></html>`

func TestRenderSubstitutesAllTokens(t *testing.T) {
	branding := config.BrandingConfig{
		Name:         "My Server",
		PrimaryColor: "#123456",
		LoginURL:     "https://media.example.com/login",
		LogoRef:      "https://media.example.com/logo.png",
	}

	out := Render(allTokensTemplate, branding, "user@example.com", "secret123", true)

	assert.NotContains(t, out.HTML, "{{")
	assert.NotContains(t, out.HTML, "}}")
	assert.Contains(t, out.HTML, "My Server")
	assert.Contains(t, out.HTML, "#123456")
	assert.Contains(t, out.HTML, "user@example.com")
	assert.Contains(t, out.HTML, "secret123")
	assert.Contains(t, out.HTML, "https://media.example.com/login")
	// remote logo reference passes through verbatim, no attachment
	assert.Contains(t, out.HTML, "https://media.example.com/logo.png")
	assert.Nil(t, out.InlineLogo)
}

func TestRenderEscapesValues(t *testing.T) {
	out := Render("{{email}}", config.BrandingConfig{}, `a&b@x.com`, "", true)
	assert.Contains(t, out.HTML, "a&amp;b@x.com")

	out = Render("{{brandName}}", config.BrandingConfig{Name: `<b "quoted">`}, "", "", true)
	assert.Equal(t, "&lt;b &quot;quoted&quot;&gt;", out.HTML)
}

func TestRenderDefaults(t *testing.T) {
	out := Render("{{brandName}}|{{primaryColor}}|{{loginUrl}}", config.BrandingConfig{}, "", "", true)
	assert.Equal(t, DefaultBrandName+"|"+DefaultPrimaryColor+"|", out.HTML)
}

func TestRenderIsDeterministic(t *testing.T) {
	branding := config.BrandingConfig{Name: "Srv", LogoRef: writeLogo(t, "logo.png")}
	first := Render(allTokensTemplate, branding, "a@x.com", "pw", false)
	second := Render(allTokensTemplate, branding, "a@x.com", "pw", false)
	assert.Equal(t, first.HTML, second.HTML)
}

func TestRenderLogoMissingFile(t *testing.T) {
	branding := config.BrandingConfig{LogoRef: filepath.Join(t.TempDir(), "missing.png")}
	out := Render("{{logo}}", branding, "", "", true)

	assert.Equal(t, escape(branding.LogoRef), out.HTML)
	assert.Nil(t, out.InlineLogo)
}

func TestRenderLogoInlineCid(t *testing.T) {
	branding := config.BrandingConfig{LogoRef: writeLogo(t, "logo.png")}
	out := Render("{{logo}}", branding, "", "", true)

	assert.Equal(t, "cid:"+LogoContentID, out.HTML)
	require.NotNil(t, out.InlineLogo)
	assert.Equal(t, LogoContentID, out.InlineLogo.ContentID)
	assert.Equal(t, "image/png", out.InlineLogo.MediaType)
	assert.NotEmpty(t, out.InlineLogo.Bytes)
}

func TestRenderLogoDataURL(t *testing.T) {
	branding := config.BrandingConfig{LogoRef: writeLogo(t, "logo.svg")}
	out := Render("{{logo}}", branding, "", "", false)

	assert.True(t, strings.HasPrefix(out.HTML, "data:image/svg+xml;base64,"), "got %q", out.HTML)
	assert.Nil(t, out.InlineLogo)
}

func TestGuessMediaType(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"logo.png", "image/png"},
		{"logo.JPG", "image/jpeg"},
		{"logo.jpeg", "image/jpeg"},
		{"logo.gif", "image/gif"},
		{"logo.svg", "image/svg+xml"},
		{"logo.bmp", "application/octet-stream"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, guessMediaType(tt.path), tt.path)
	}
}

func TestDefaultTemplatesEmbedded(t *testing.T) {
	for _, html := range []string{DefaultInviteHTML(), DefaultResetHTML(), DefaultTestHTML()} {
		require.NotEmpty(t, html)
		assert.Contains(t, html, "{{brandName}}")
	}
}

func writeLogo(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("fake image bytes"), 0o600))
	return path
}
