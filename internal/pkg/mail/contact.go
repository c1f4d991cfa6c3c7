package mail

import (
	"bytes"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
	"time"
)

const contactHTMLTpl = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta http-equiv="Content-Type" content="text/html; charset=UTF-8" />
</head>
<body style="background-color:#f5f5f5;margin:0 auto;font-family:ui-sans-serif,system-ui,-apple-system,Segoe UI,Roboto,Helvetica Neue,Arial,sans-serif;padding:.5rem">
  <div style="max-width:600px;margin:40px auto;background:#fff;border-radius:8px;padding:24px;border-top:4px solid rgb(14,165,233)">
    <h2 style="color:#111;margin-top:0">New message from your portfolio</h2>
    <table role="presentation" style="width:100%;font-size:14px;line-height:24px;color:#333">
      <tr><td style="width:90px;color:#6b7280">Name</td><td><strong>{{.Name}}</strong></td></tr>
      <tr><td style="color:#6b7280">Email</td><td><a href="mailto:{{.Email}}">{{.Email}}</a></td></tr>
      {{if .Phone}}<tr><td style="color:#6b7280">Phone</td><td>{{.Phone}}</td></tr>{{end}}
      <tr><td style="color:#6b7280">Subject</td><td>{{.Subject}}</td></tr>
    </table>
    <div style="background:rgb(243,244,246);border-radius:.75rem;padding:1rem;margin-top:16px;font-size:14px;line-height:22px;white-space:pre-wrap;color:#333">{{.Message}}</div>
    <hr style="border:none;border-top:1px solid #eaeaea;margin:26px 0" />
    <p style="font-size:11px;color:rgb(156,163,175);text-align:center;margin:0">Sent {{.SentAt}} from the contact form. Reply to this email to answer {{.Name}} directly.</p>
  </div>
</body>
</html>`

const contactTextTpl = `New message from your portfolio

Name:    {{.Name}}
Email:   {{.Email}}
{{- if .Phone}}
Phone:   {{.Phone}}
{{- end}}
Subject: {{.Subject}}

{{.Message}}

--
Sent {{.SentAt}} from the contact form.
`

var (
	contactHTML = htmltemplate.Must(htmltemplate.New("contact.html").Parse(contactHTMLTpl))
	contactText = texttemplate.Must(texttemplate.New("contact.txt").Parse(contactTextTpl))
)

// ContactNotifyData is the data for contact-form notification emails.
type ContactNotifyData struct {
	Name    string
	Email   string
	Phone   string
	Subject string
	Message string
	SentAt  string
}

// ContactMessage renders the owner notification for one contact submission.
// Replies go straight to the submitter.
func ContactMessage(to string, data ContactNotifyData, now time.Time) (Message, error) {
	if strings.TrimSpace(data.SentAt) == "" {
		data.SentAt = now.Format("Jan 2, 2006 15:04 MST")
	}
	var html, text bytes.Buffer
	if err := contactHTML.Execute(&html, data); err != nil {
		return Message{}, err
	}
	if err := contactText.Execute(&text, data); err != nil {
		return Message{}, err
	}
	return Message{
		To:      []string{to},
		ReplyTo: data.Email,
		Subject: "Portfolio Contact: " + data.Subject,
		HTML:    html.String(),
		Text:    text.String(),
	}, nil
}
