package mailer

import "github.com/alterlapsus/auth-api/pkg/mailer/templates"

// TemplateWelcome names the post-registration email template.
const TemplateWelcome = templates.TemplateWelcome

// Render resolves a job template into subject/text/html bodies.
func Render(job EmailJob) (subject, text, html string, err error) {
	if job.Template == "" {
		return job.Subject, job.Text, job.HTML, nil
	}
	return templates.Render(job.Template, job.Data)
}
