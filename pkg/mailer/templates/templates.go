package templates

import (
	"bytes"
	"fmt"
	"html/template"
)

// TemplateWelcome is re-exported by the mailer package; see Render.
const TemplateWelcome = "welcome"

var welcomeHTML = template.Must(template.New("welcome").Parse(`<!doctype html>
<html>
  <body style="font-family: sans-serif; color: #222;">
    <h2>Welcome to {{.AppName}}, {{.Username}}!</h2>
    <p>Your account has been created and is ready to use.</p>
    <p>If you did not sign up, you can safely ignore this message.</p>
  </body>
</html>`))

// Render returns subject, text and HTML bodies for the named template.
func Render(name string, data map[string]any) (subject, text, html string, err error) {
	switch name {
	case TemplateWelcome:
		var buf bytes.Buffer
		if err := welcomeHTML.Execute(&buf, data); err != nil {
			return "", "", "", err
		}
		app, _ := data["AppName"].(string)
		username, _ := data["Username"].(string)
		subject = fmt.Sprintf("Welcome to %s", app)
		text = fmt.Sprintf("Welcome to %s, %s! Your account has been created.", app, username)
		return subject, text, buf.String(), nil
	}
	return "", "", "", fmt.Errorf("unknown email template %q", name)
}
