package notify

import (
	"bytes"
	"fmt"
	"html/template"
)

// Kind selects a message template
type Kind string

const (
	KindAdminNewSubmission Kind = "admin-new-submission"
	KindDonorThankYou      Kind = "donor-thank-you"
	KindApprovalWithCard   Kind = "approval-with-card"
	KindReceiptWithPDF     Kind = "receipt-with-pdf"
	KindContactAck         Kind = "contact-ack"
	KindContactNotifyAdmin Kind = "contact-notify-admin"
)

// templateData is what templates interpolate
type templateData struct {
	R       Canonical
	OrgName string
	Subject string
	Extra   map[string]string
}

type messageTemplate struct {
	subject string
	body    *template.Template
}

var templates = map[Kind]messageTemplate{
	KindAdminNewSubmission: {
		subject: "New submission received: %s",
		body: mustParse("admin-new-submission", `
<h2>New submission</h2>
<p>A new submission has been received and is awaiting review.</p>
<table>
  <tr><td>Name</td><td>{{.R.Name}}</td></tr>
  <tr><td>Email</td><td>{{.R.Email}}</td></tr>
  <tr><td>Phone</td><td>{{.R.Phone}}</td></tr>
  <tr><td>Type</td><td>{{.R.Purpose}}</td></tr>
  <tr><td>Reference</td><td>{{.R.Code}}</td></tr>
  <tr><td>Date</td><td>{{.R.DateFormatted}}</td></tr>
</table>
<p>— {{.OrgName}} back office</p>`),
	},
	KindDonorThankYou: {
		subject: "Thank you for your donation to %s",
		body: mustParse("donor-thank-you", `
<h2>Dear {{.R.Name}},</h2>
<p>Thank you for your generous donation of <strong>₹{{.R.AmountFormatted}}</strong>
towards <em>{{.R.Purpose}}</em>.</p>
<p>Your donation reference is <strong>{{.R.Code}}</strong>. Our team will
review it shortly and send your receipt.</p>
<p>With gratitude,<br>{{.OrgName}}</p>`),
	},
	KindApprovalWithCard: {
		subject: "Welcome to %s — your membership card",
		body: mustParse("approval-with-card", `
<h2>Dear {{.R.Name}},</h2>
<p>Your membership application has been approved. Your member code is
<strong>{{.R.Code}}</strong>.</p>
<p>Your membership card is attached to this email. Please keep it for
your records.</p>
<p>Welcome aboard,<br>{{.OrgName}}</p>`),
	},
	KindReceiptWithPDF: {
		subject: "Your donation receipt from %s",
		body: mustParse("receipt-with-pdf", `
<h2>Dear {{.R.Name}},</h2>
<p>Your donation of <strong>₹{{.R.AmountFormatted}}</strong> dated
{{.R.DateFormatted}} has been approved.</p>
<p>Receipt <strong>{{.R.Code}}</strong> is attached as a PDF.</p>
<p>Thank you for supporting our work.<br>{{.OrgName}}</p>`),
	},
	KindContactAck: {
		subject: "We received your message — %s",
		body: mustParse("contact-ack", `
<h2>Dear {{.R.Name}},</h2>
<p>Thank you for reaching out. We have received your message and will get
back to you within a few working days.</p>
<p>Regards,<br>{{.OrgName}}</p>`),
	},
	KindContactNotifyAdmin: {
		subject: "New contact message: %s",
		body: mustParse("contact-notify-admin", `
<h2>New contact message</h2>
<table>
  <tr><td>From</td><td>{{.R.Name}} ({{.R.Email}})</td></tr>
  <tr><td>Phone</td><td>{{.R.Phone}}</td></tr>
  <tr><td>Subject</td><td>{{.Extra.subject}}</td></tr>
</table>
<p>{{.Extra.message}}</p>`),
	},
}

func mustParse(name, text string) *template.Template {
	return template.Must(template.New(name).Parse(text))
}

// render produces the subject and HTML body for a kind
func render(kind Kind, data templateData) (subject, body string, err error) {
	tmpl, ok := templates[kind]
	if !ok {
		return "", "", fmt.Errorf("unknown notification kind %q", kind)
	}

	subject = fmt.Sprintf(tmpl.subject, data.OrgName)
	if kind == KindAdminNewSubmission || kind == KindContactNotifyAdmin {
		arg := data.R.Name
		if kind == KindContactNotifyAdmin && data.Extra["subject"] != "" {
			arg = data.Extra["subject"]
		}
		subject = fmt.Sprintf(tmpl.subject, arg)
	}
	if kind == KindContactAck {
		subject = fmt.Sprintf(tmpl.subject, data.Extra["subject"])
	}

	var buf bytes.Buffer
	if err := tmpl.body.Execute(&buf, data); err != nil {
		return "", "", fmt.Errorf("render %s: %w", kind, err)
	}
	return subject, buf.String(), nil
}
