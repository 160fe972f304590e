package mail

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"
)

const baseStyle = `body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
.container { max-width: 600px; margin: 0 auto; padding: 20px; }
.header { background: linear-gradient(135deg, #6366f1 0%, #8b5cf6 100%); color: white; padding: 30px; text-align: center; border-radius: 10px 10px 0 0; }
.content { background: #f9fafb; padding: 30px; border-radius: 0 0 10px 10px; }
.field { margin-bottom: 20px; }
.label { font-weight: bold; color: #6366f1; margin-bottom: 5px; display: block; }
.value { color: #1f2937; }
.block { white-space: pre-wrap; background: white; padding: 15px; border-radius: 5px; margin-top: 10px; }
.priority { display: inline-block; padding: 5px 15px; border-radius: 20px; font-weight: bold; font-size: 12px; color: white; }
.priority-urgent { background: #ef4444; }
.priority-high { background: #f59e0b; }
.priority-medium { background: #3b82f6; }
.priority-low { background: #10b981; }
.button { display: inline-block; padding: 12px 30px; background: #6366f1; color: white; text-decoration: none; border-radius: 5px; }
.footer { text-align: center; margin-top: 30px; color: #6b7280; font-size: 12px; }`

const layoutTpl = `{{define "layout"}}<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <style>{{style}}</style>
</head>
<body>
  <div class="container">
    <div class="header"><h1>{{template "title" .}}</h1></div>
    <div class="content">{{template "content" .}}</div>
    <div class="footer"><p>{{template "footer" .}}</p><p>&copy; {{year}} SoftIonyx Technologies</p></div>
  </div>
</body>
</html>{{end}}
{{define "field"}}<div class="field"><span class="label">{{.Label}}:</span><span class="value">{{.Value}}</span></div>{{end}}`

const contactTpl = `{{define "title"}}New Contact Form Submission{{end}}
{{define "content"}}
{{template "field" (field "Name" .Name)}}
{{template "field" (field "Email" .Email)}}
{{if .Phone}}{{template "field" (field "Phone" .Phone)}}{{end}}
{{template "field" (field "Subject" .Subject)}}
<div class="field"><span class="label">Message:</span><div class="value block">{{.Message}}</div></div>
{{end}}
{{define "footer"}}This email was sent from the SoftIonyx website contact form.{{end}}`

const helpRequestTpl = `{{define "title"}}New Help Request{{end}}
{{define "content"}}
<div class="field"><span class="priority priority-{{.Priority}}">{{upper .Priority}}</span></div>
{{template "field" (field "Name" .Name)}}
{{template "field" (field "Email" .Email)}}
{{if .Company}}{{template "field" (field "Company" .Company)}}{{end}}
{{if .Phone}}{{template "field" (field "Phone" .Phone)}}{{end}}
{{template "field" (field "Service Type" .ServiceType)}}
{{template "field" (field "Subject" .Subject)}}
<div class="field"><span class="label">Description:</span><div class="value block">{{.Description}}</div></div>
{{end}}
{{define "footer"}}This help request was submitted through the SoftIonyx website.{{end}}`

const jobApplicationTpl = `{{define "title"}}New Job Application{{end}}
{{define "content"}}
{{template "field" (field "Position" .JobTitle)}}
{{template "field" (field "Name" .Name)}}
{{template "field" (field "Email" .Email)}}
{{if .Phone}}{{template "field" (field "Phone" .Phone)}}{{end}}
{{if .ResumeURL}}<div class="field"><span class="label">Resume:</span><a class="value" href="{{.ResumeURL}}">Download resume</a></div>{{end}}
{{if .CoverLetter}}<div class="field"><span class="label">Cover Letter:</span><div class="value block">{{.CoverLetter}}</div></div>{{end}}
{{end}}
{{define "footer"}}This application was submitted through the SoftIonyx careers page.{{end}}`

const welcomeTpl = `{{define "title"}}Welcome to SoftIonyx!{{end}}
{{define "content"}}
<p>Hi {{.Name}},</p>
<p>Thank you for creating an account. You can now submit help requests and follow their progress from your dashboard.</p>
<p style="text-align:center;margin:30px 0"><a class="button" href="{{.LoginURL}}">Sign in</a></p>
{{end}}
{{define "footer"}}You received this email because you registered at SoftIonyx.{{end}}`

type fieldRow struct {
	Label string
	Value string
}

var funcs = template.FuncMap{
	"year":  func() int { return time.Now().Year() },
	"upper": strings.ToUpper,
	"style": func() template.CSS { return template.CSS(baseStyle) },
	"field": func(label, value string) fieldRow {
		if strings.TrimSpace(value) == "" {
			value = "N/A"
		}
		return fieldRow{Label: label, Value: value}
	},
}

var (
	contactTemplate        = mustParse(contactTpl)
	helpRequestTemplate    = mustParse(helpRequestTpl)
	jobApplicationTemplate = mustParse(jobApplicationTpl)
	welcomeTemplate        = mustParse(welcomeTpl)
)

func mustParse(body string) *template.Template {
	return template.Must(template.Must(template.New("layout").Funcs(funcs).Parse(layoutTpl)).Parse(body))
}

func render(t *template.Template, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

type ContactData struct {
	Name    string
	Email   string
	Phone   string
	Subject string
	Message string
}

type HelpRequestData struct {
	Name        string
	Email       string
	Company     string
	Phone       string
	ServiceType string
	Priority    string
	Subject     string
	Description string
}

type JobApplicationData struct {
	JobTitle    string
	Name        string
	Email       string
	Phone       string
	ResumeURL   string
	CoverLetter string
}

type WelcomeData struct {
	Name     string
	LoginURL string
}

// ContactMessage builds the contact-form notification. The visitor is both
// sender and Reply-To; callers may swap From on rejection.
func ContactMessage(to string, data ContactData) (Message, error) {
	html, err := render(contactTemplate, data)
	if err != nil {
		return Message{}, err
	}
	visitor := Address(data.Name, data.Email)
	return Message{
		From:    visitor,
		To:      []string{to},
		ReplyTo: visitor,
		Subject: "Contact Form: " + data.Subject,
		HTML:    html,
		Headers: map[string]string{
			"X-Contact-Form":    "true",
			"X-Original-Sender": data.Email,
		},
	}, nil
}

// HelpRequestMessage builds the help-request notification.
func HelpRequestMessage(to string, data HelpRequestData) (Message, error) {
	if data.Priority == "" {
		data.Priority = "medium"
	}
	html, err := render(helpRequestTemplate, data)
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:      []string{to},
		ReplyTo: data.Email,
		Subject: "New Help Request: " + data.Subject,
		HTML:    html,
	}, nil
}

// JobApplicationMessage builds the job-application notification.
func JobApplicationMessage(to string, data JobApplicationData) (Message, error) {
	html, err := render(jobApplicationTemplate, data)
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:      []string{to},
		ReplyTo: data.Email,
		Subject: fmt.Sprintf("New Job Application: %s", data.JobTitle),
		HTML:    html,
	}, nil
}

// WelcomeMessage builds the post-registration greeting.
func WelcomeMessage(to string, data WelcomeData) (Message, error) {
	html, err := render(welcomeTemplate, data)
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:      []string{to},
		Subject: "Welcome to SoftIonyx!",
		HTML:    html,
	}, nil
}
