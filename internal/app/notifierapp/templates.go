package notifierapp

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/tiagocodinha/StagelinkApproval/internal/services/notify"
)

var assignedTemplate = template.Must(template.New("content_assigned").Parse(`
<div style="font-family: sans-serif; max-width: 480px; margin: 0 auto;">
  <h2>New content to review</h2>
  <p>Hello {{.RecipientName}},</p>
  <p>{{.AssignerName}} shared a new <strong>{{.ContentType}}</strong> with you for approval.</p>
  <p><a href="{{.AppURL}}" style="background:#111;color:#fff;padding:10px 18px;text-decoration:none;border-radius:6px;">Review it</a></p>
</div>
`))

var statusUpdatedTemplate = template.Must(template.New("content_status_updated").Parse(`
<div style="font-family: sans-serif; max-width: 480px; margin: 0 auto;">
  <h2>Content {{.Status}}</h2>
  <p>Hello {{.RecipientName}},</p>
  <p>{{.ReviewerName}} marked a <strong>{{.ContentType}}</strong> as <strong>{{.Status}}</strong>.</p>
  <p><a href="{{.AppURL}}" style="background:#111;color:#fff;padding:10px 18px;text-decoration:none;border-radius:6px;">Open the dashboard</a></p>
</div>
`))

type templateData struct {
	notify.Payload
	AppURL string
}

// renderEmail picks the template and subject for one payload type.
func renderEmail(payload notify.Payload, appURL string) (subject, body string, err error) {
	data := templateData{Payload: payload, AppURL: appURL}

	var tmpl *template.Template
	switch payload.Type {
	case notify.TypeContentAssigned:
		subject = fmt.Sprintf("New %s waiting for your review", payload.ContentType)
		tmpl = assignedTemplate
	case notify.TypeContentStatusUpdated:
		subject = fmt.Sprintf("Your %s was %s", payload.ContentType, payload.Status)
		tmpl = statusUpdatedTemplate
	default:
		return "", "", fmt.Errorf("unknown notification type %q", payload.Type)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", "", fmt.Errorf("render %s email: %w", payload.Type, err)
	}

	return subject, buf.String(), nil
}
