package templates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderAllTemplates(t *testing.T) {
	data := EmailData{
		Name:      "Alice",
		Email:     "alice@example.com",
		AppName:   "identity-service",
		ActionURL: "https://app.test/verify-email?token=abc",
		ExpiresAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	for _, name := range []string{VerifyEmail, ForgotPassword, PasswordChanged} {
		t.Run(name, func(t *testing.T) {
			subject, text, html, err := Render(name, data)
			require.NoError(t, err)
			assert.NotEmpty(t, subject)
			assert.NotEmpty(t, text)
			assert.NotEmpty(t, html)
			assert.Contains(t, subject, "identity-service")
			assert.Contains(t, text, "Alice")
		})
	}
}

func TestRenderUnknownTemplate(t *testing.T) {
	_, _, _, err := Render("no_such_template", EmailData{})
	assert.Error(t, err)
}

func TestMapRoundTrip(t *testing.T) {
	in := EmailData{
		Name:      "Alice",
		Email:     "alice@example.com",
		AppName:   "identity-service",
		ActionURL: "https://app.test/reset",
		ExpiresAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	out := FromMap(ToMap(in))
	assert.Equal(t, in.Name, out.Name)
	assert.Equal(t, in.ActionURL, out.ActionURL)
	assert.True(t, in.ExpiresAt.Equal(out.ExpiresAt))
}

func TestToMapOmitsUnsetFields(t *testing.T) {
	m := ToMap(EmailData{Name: "Alice", Email: "a@b.co", AppName: "x"})
	assert.NotContains(t, m, "action_url")
	assert.NotContains(t, m, "expires_at")
}
