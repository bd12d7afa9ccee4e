package mail

import (
	"bytes"
	"fmt"
	"html"
	"html/template"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
)

const layout = `<!DOCTYPE html>
<html><body style="font-family: sans-serif; color: #222;">
<h2>BorrowSmart</h2>
{{template "body" .}}
<p style="color: #888; font-size: 12px;">This is an automated message from the BorrowSmart instrument portal. Please do not reply.</p>
</body></html>`

var bodies = map[string]string{
	"verification": `{{define "body"}}<p>Hello {{.Name}},</p>
<p>Please confirm your email address to activate your account:</p>
<p><a href="{{.Link}}">{{.Link}}</a></p>
<p>The link expires in {{.TTL}}.</p>{{end}}`,

	"two_factor": `{{define "body"}}<p>Hello {{.Name}},</p>
<p>Your verification code is:</p>
<p style="font-size: 24px; letter-spacing: 4px;"><strong>{{.Code}}</strong></p>
<p>The code expires in {{.TTL}}. If you did not try to sign in, change your password.</p>{{end}}`,

	"password_reset": `{{define "body"}}<p>Hello {{.Name}},</p>
<p>A password reset was requested for your account. Use this link to choose a new password:</p>
<p><a href="{{.Link}}">{{.Link}}</a></p>
<p>The link expires in {{.TTL}}. If you did not request it, you can ignore this email.</p>{{end}}`,

	"password_changed": `{{define "body"}}<p>Hello {{.Name}},</p>
<p>The password for your account was changed and all your sessions were signed out.</p>
<p>If this was not you, contact the portal administrator immediately.</p>{{end}}`,
}

var templates = func() map[string]*template.Template {
	out := make(map[string]*template.Template, len(bodies))
	for name, body := range bodies {
		t := template.Must(template.New(name).Parse(layout))
		out[name] = template.Must(t.Parse(body))
	}
	return out
}()

var textPolicy = bluemonday.StrictPolicy()

type templateData struct {
	Name string
	Link string
	Code string
	TTL  string
}

func render(name, to, subject string, data templateData) (Message, error) {
	t, ok := templates[name]
	if !ok {
		return Message{}, fmt.Errorf("mail: unknown template %q", name)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return Message{}, fmt.Errorf("mail: render %s: %w", name, err)
	}
	return Message{
		To:      to,
		Subject: subject,
		HTML:    buf.String(),
		Text:    plainText(buf.String()),
	}, nil
}

// plainText strips every tag from an HTML body and tidies the whitespace so
// that it reads as the text alternative.
func plainText(body string) string {
	stripped := html.UnescapeString(textPolicy.Sanitize(body))

	var lines []string
	for _, l := range strings.Split(stripped, "\n") {
		if l = strings.Join(strings.Fields(l), " "); l != "" {
			lines = append(lines, l)
		}
	}
	return strings.Join(lines, "\n")
}

func humanize(d time.Duration) string {
	switch {
	case d >= time.Hour && d%time.Hour == 0:
		if h := int(d / time.Hour); h != 1 {
			return fmt.Sprintf("%d hours", h)
		}
		return "1 hour"
	case d >= time.Minute:
		if m := int(d / time.Minute); m != 1 {
			return fmt.Sprintf("%d minutes", m)
		}
		return "1 minute"
	default:
		return d.String()
	}
}

func VerificationEmail(to, name, link string, ttl time.Duration) (Message, error) {
	return render("verification", to, "Verify your BorrowSmart account", templateData{
		Name: name, Link: link, TTL: humanize(ttl),
	})
}

func TwoFactorEmail(to, name, code string, ttl time.Duration) (Message, error) {
	return render("two_factor", to, "Your BorrowSmart verification code", templateData{
		Name: name, Code: code, TTL: humanize(ttl),
	})
}

func PasswordResetEmail(to, name, link string, ttl time.Duration) (Message, error) {
	return render("password_reset", to, "Reset your BorrowSmart password", templateData{
		Name: name, Link: link, TTL: humanize(ttl),
	})
}

func PasswordChangedEmail(to, name string) (Message, error) {
	return render("password_changed", to, "Your BorrowSmart password was changed", templateData{Name: name})
}
