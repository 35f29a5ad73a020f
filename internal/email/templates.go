package email

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"

	"cfp-engine/internal/models"
)

// ErrUnknownTemplate is returned for template names the renderer does not know
var ErrUnknownTemplate = errors.New("unknown email template")

// EmailTemplate pairs a subject format with an HTML body
type EmailTemplate struct {
	Subject string
	Body    *template.Template
}

// Rendered is a ready-to-send message
type Rendered struct {
	Subject string
	Body    string
}

const layoutHTML = `{{define "layout"}}<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>{{template "title" .}}</title>
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        {{template "content" .}}
        <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
        <p style="color: #999; font-size: 12px;">This is an automated email. Please do not reply.</p>
    </div>
</body>
</html>{{end}}`

const invitationHTML = `{{define "title"}}Reviewer invitation{{end}}
{{define "content"}}
        <h2 style="color: #4a90e2;">You're invited to review talks</h2>
        <p>Hello{{with .name}} {{.}}{{end}},</p>
        <p>You have been invited to join the program committee as <strong>{{.role}}</strong>.</p>
        <div style="text-align: center; margin: 30px 0;">
            <a href="{{.activation_url}}" style="background-color: #4a90e2; color: white; padding: 12px 30px; text-decoration: none; border-radius: 5px; display: inline-block;">Accept invitation</a>
        </div>
        <p>If the button doesn't work, copy this link into your browser:</p>
        <p style="word-break: break-all; color: #4a90e2;">{{.activation_url}}</p>
{{end}}`

const acceptedHTML = `{{define "title"}}Your talk was accepted{{end}}
{{define "content"}}
        <h2 style="color: #27ae60;">Congratulations!</h2>
        <p>Hello {{.speaker_name}},</p>
        <p>We are happy to tell you that <strong>{{.title}}</strong> was accepted.</p>
        <p>Details about the schedule and speaker logistics will follow.</p>
        {{with .conference_url}}<p><a href="{{.}}" style="color: #4a90e2;">Conference website</a></p>{{end}}
{{end}}`

const rejectedHTML = `{{define "title"}}Update on your submission{{end}}
{{define "content"}}
        <h2 style="color: #4a90e2;">Thank you for submitting</h2>
        <p>Hello {{.speaker_name}},</p>
        <p>Thank you for proposing <strong>{{.title}}</strong>. Unfortunately we could not include it in this year's program.</p>
        <p>We received many strong proposals and hope to see you submit again.</p>
        {{with .conference_url}}<p><a href="{{.}}" style="color: #4a90e2;">Conference website</a></p>{{end}}
{{end}}`

var templates = map[string]EmailTemplate{
	models.TemplateReviewerInvitation: {
		Subject: "You're invited to review talks",
		Body:    mustParse(models.TemplateReviewerInvitation, invitationHTML),
	},
	models.TemplateDecisionAccepted: {
		Subject: "Accepted: %s",
		Body:    mustParse(models.TemplateDecisionAccepted, acceptedHTML),
	},
	models.TemplateDecisionRejected: {
		Subject: "Your submission: %s",
		Body:    mustParse(models.TemplateDecisionRejected, rejectedHTML),
	},
}

func mustParse(name, content string) *template.Template {
	return template.Must(template.Must(template.New(name).Parse(layoutHTML)).Parse(content))
}

// Render fills the named template with the queue entry's payload
func Render(name string, payload json.RawMessage) (*Rendered, error) {
	tmpl, ok := templates[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTemplate, name)
	}

	data := map[string]any{}
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &data); err != nil {
			return nil, fmt.Errorf("invalid payload: %w", err)
		}
	}

	var body bytes.Buffer
	if err := tmpl.Body.ExecuteTemplate(&body, "layout", data); err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", name, err)
	}

	subject := tmpl.Subject
	if name != models.TemplateReviewerInvitation {
		title, _ := data["title"].(string)
		subject = fmt.Sprintf(tmpl.Subject, title)
	}

	return &Rendered{Subject: subject, Body: body.String()}, nil
}
