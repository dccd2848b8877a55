// Package mailer доставляет одноразовые коды входа администратора.
package mailer

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

var codeTemplate = template.Must(template.ParseFS(templateFS, "templates/passcode.html"))

const codeSubject = "Your Ranked Handcricket admin code"

type codeData struct {
	Code      string
	ExpiresIn string
}

// renderCode builds the HTML body of a passcode message.
func renderCode(code string, ttl time.Duration) (string, error) {
	data := codeData{Code: code}
	if ttl > 0 {
		data.ExpiresIn = ttl.String()
	}

	var body bytes.Buffer
	if err := codeTemplate.Execute(&body, data); err != nil {
		return "", fmt.Errorf("failed to render passcode template: %w", err)
	}
	return body.String(), nil
}
