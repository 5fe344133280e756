package templates

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"
	"time"
)

// Template names carried on email jobs.
const (
	VerifyEmail     = "verify_email"
	ForgotPassword  = "forgot_password"
	PasswordChanged = "password_changed"
)

//go:embed *.tmpl
var files embed.FS

// EmailData is the payload rendered into every email template.
type EmailData struct {
	Name      string
	Email     string
	AppName   string
	ActionURL string
	ExpiresAt time.Time
}

// ExpiresAtText formats the expiry for display, empty when unset.
func (d EmailData) ExpiresAtText() string {
	if d.ExpiresAt.IsZero() {
		return ""
	}
	return d.ExpiresAt.UTC().Format("Jan 2, 2006 15:04 MST")
}

// ToMap flattens EmailData for transport on the email queue.
func ToMap(d EmailData) map[string]any {
	m := map[string]any{
		"name":     d.Name,
		"email":    d.Email,
		"app_name": d.AppName,
	}
	if d.ActionURL != "" {
		m["action_url"] = d.ActionURL
	}
	if !d.ExpiresAt.IsZero() {
		m["expires_at"] = d.ExpiresAt.UTC().Format(time.RFC3339)
	}
	return m
}

// FromMap restores EmailData from a queued job payload.
func FromMap(m map[string]any) EmailData {
	d := EmailData{
		Name:      str(m, "name"),
		Email:     str(m, "email"),
		AppName:   str(m, "app_name"),
		ActionURL: str(m, "action_url"),
	}
	if raw := str(m, "expires_at"); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			d.ExpiresAt = t
		}
	}
	return d
}

func str(m map[string]any, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

// Render produces the subject, plain-text body, and HTML body for a named
// template.
func Render(name string, data EmailData) (subject, text, html string, err error) {
	subject, err = renderText(name+".subject.tmpl", data)
	if err != nil {
		return "", "", "", err
	}
	text, err = renderText(name+".text.tmpl", data)
	if err != nil {
		return "", "", "", err
	}
	html, err = renderHTML(name+".html.tmpl", data)
	if err != nil {
		return "", "", "", err
	}
	return subject, text, html, nil
}

func renderText(file string, data EmailData) (string, error) {
	t, err := texttemplate.ParseFS(files, file)
	if err != nil {
		return "", fmt.Errorf("parse template %s: %w", file, err)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render template %s: %w", file, err)
	}
	return buf.String(), nil
}

func renderHTML(file string, data EmailData) (string, error) {
	t, err := htmltemplate.ParseFS(files, file)
	if err != nil {
		return "", fmt.Errorf("parse template %s: %w", file, err)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render template %s: %w", file, err)
	}
	return buf.String(), nil
}
