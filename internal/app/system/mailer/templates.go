// internal/app/system/mailer/templates.go
package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/dalemusser/disputehub/internal/app/system/htmlsanitize"
)

// InvitationEmailData holds data for the respondent invitation.
type InvitationEmailData struct {
	SiteName     string
	MediatorName string
	DisputeTitle string
	ClaimLink    string
	ExpiresIn    string // e.g., "3 days"
}

// BuildInvitationEmail tells a respondent they were named in a dispute and
// how to claim their account. It never carries a password.
func BuildInvitationEmail(to string, data InvitationEmailData) Email {
	var text bytes.Buffer
	fmt.Fprintf(&text, "You have been named as the respondent in a dispute on %s.\n\n", data.SiteName)
	fmt.Fprintf(&text, "Dispute: %s\n", data.DisputeTitle)
	if data.MediatorName != "" {
		fmt.Fprintf(&text, "Mediator: %s\n", data.MediatorName)
	}
	text.WriteString("\nSet your password and sign in here:\n")
	text.WriteString(data.ClaimLink + "\n\n")
	fmt.Fprintf(&text, "This link can be used once and expires in %s.\n", data.ExpiresIn)

	return Email{
		To:       to,
		Subject:  fmt.Sprintf("You have been invited to a dispute on %s", data.SiteName),
		TextBody: text.String(),
		HTMLBody: render(invitationTmpl, data),
	}
}

// AdminInvitationEmailData holds data for the bootstrap admin's claim link.
type AdminInvitationEmailData struct {
	SiteName  string
	ClaimLink string
	ExpiresIn string
}

// BuildAdminInvitationEmail sends a newly created administrator the link
// that sets their password.
func BuildAdminInvitationEmail(to string, data AdminInvitationEmailData) Email {
	var text bytes.Buffer
	fmt.Fprintf(&text, "An administrator account has been created for you on %s.\n\n", data.SiteName)
	text.WriteString("Set your password and sign in here:\n")
	text.WriteString(data.ClaimLink + "\n\n")
	fmt.Fprintf(&text, "This link can be used once and expires in %s.\n", data.ExpiresIn)

	return Email{
		To:       to,
		Subject:  fmt.Sprintf("Your %s administrator account", data.SiteName),
		TextBody: text.String(),
		HTMLBody: render(adminInvitationTmpl, data),
	}
}

// MeetingRequestEmailData holds data for the mediator's meeting request notice.
type MeetingRequestEmailData struct {
	RequesterName string
	DisputeTitle  string
	ProposedAt    time.Time
	Notes         string // sanitized HTML
}

// BuildMeetingRequestEmail notifies a mediator of a new meeting request.
func BuildMeetingRequestEmail(to string, data MeetingRequestEmailData) Email {
	var text bytes.Buffer
	fmt.Fprintf(&text, "%s has requested a meeting.\n\n", data.RequesterName)
	fmt.Fprintf(&text, "Dispute: %s\n", data.DisputeTitle)
	fmt.Fprintf(&text, "Proposed time: %s\n", data.ProposedAt.UTC().Format(time.RFC1123))
	if data.Notes != "" {
		fmt.Fprintf(&text, "Notes: %s\n", htmlsanitize.PlainText(data.Notes))
	}

	return Email{
		To:       to,
		Subject:  "New Meeting Request",
		TextBody: text.String(),
		HTMLBody: render(meetingRequestTmpl, struct {
			MeetingRequestEmailData
			When      string
			NotesHTML template.HTML
		}{data, data.ProposedAt.UTC().Format(time.RFC1123), htmlsanitize.SanitizeToHTML(data.Notes)}),
	}
}

// MeetingStatusEmailData holds data for the attendee status notice.
type MeetingStatusEmailData struct {
	DisputeTitle string
	Status       string
	ProposedAt   time.Time
	MeetingLink  string
	Notes        string // sanitized HTML
}

// BuildMeetingStatusEmail notifies an attendee that a meeting changed state.
func BuildMeetingStatusEmail(to string, data MeetingStatusEmailData) Email {
	var text bytes.Buffer
	fmt.Fprintf(&text, "Your meeting for %q is now %s.\n\n", data.DisputeTitle, data.Status)
	fmt.Fprintf(&text, "Time: %s\n", data.ProposedAt.UTC().Format(time.RFC1123))
	if data.MeetingLink != "" {
		fmt.Fprintf(&text, "Link: %s\n", data.MeetingLink)
	}
	if data.Notes != "" {
		fmt.Fprintf(&text, "Notes: %s\n", htmlsanitize.PlainText(data.Notes))
	}

	return Email{
		To:       to,
		Subject:  "Meeting " + data.Status,
		TextBody: text.String(),
		HTMLBody: render(meetingStatusTmpl, struct {
			MeetingStatusEmailData
			When      string
			NotesHTML template.HTML
		}{data, data.ProposedAt.UTC().Format(time.RFC1123), htmlsanitize.SanitizeToHTML(data.Notes)}),
	}
}

// FormatExpiry formats a time.Duration as a human-readable string
// e.g., "45 minutes", "1 hour", "3 days"
func FormatExpiry(d time.Duration) string {
	minutes := int(d.Minutes())
	if minutes < 60 {
		if minutes == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", minutes)
	}
	hours := minutes / 60
	if hours < 48 {
		if hours == 1 {
			return "1 hour"
		}
		return fmt.Sprintf("%d hours", hours)
	}
	return fmt.Sprintf("%d days", hours/24)
}

func render(t *template.Template, data any) string {
	var buf bytes.Buffer
	_ = t.Execute(&buf, data)
	return buf.String()
}

const layoutOpen = `<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="margin: 0; padding: 24px; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Arial, sans-serif; background-color: #f3f4f6;">
  <div style="max-width: 480px; margin: 0 auto; background-color: #ffffff; border-radius: 8px; padding: 32px; color: #374151;">
`

const layoutClose = `  </div>
</body>
</html>`

var invitationTmpl = template.Must(template.New("invitation").Parse(layoutOpen + `
    <h1 style="margin: 0 0 16px; font-size: 20px; color: #4f46e5;">{{.SiteName}}</h1>
    <p>You have been named as the respondent in a dispute.</p>
    <p><strong>Dispute:</strong> {{.DisputeTitle}}</p>
    {{if .MediatorName}}<p><strong>Mediator:</strong> {{.MediatorName}}</p>{{end}}
    <p style="text-align: center; margin: 24px 0;">
      <a href="{{.ClaimLink}}" style="background-color: #4f46e5; color: #ffffff; padding: 12px 24px; border-radius: 6px; text-decoration: none;">Set your password</a>
    </p>
    <p style="font-size: 13px; color: #6b7280;">This link can be used once and expires in {{.ExpiresIn}}.</p>
` + layoutClose))

var adminInvitationTmpl = template.Must(template.New("adminInvitation").Parse(layoutOpen + `
    <h1 style="margin: 0 0 16px; font-size: 20px; color: #4f46e5;">{{.SiteName}}</h1>
    <p>An administrator account has been created for you.</p>
    <p style="text-align: center; margin: 24px 0;">
      <a href="{{.ClaimLink}}" style="background-color: #4f46e5; color: #ffffff; padding: 12px 24px; border-radius: 6px; text-decoration: none;">Set your password</a>
    </p>
    <p style="font-size: 13px; color: #6b7280;">This link can be used once and expires in {{.ExpiresIn}}.</p>
` + layoutClose))

var meetingRequestTmpl = template.Must(template.New("meetingRequest").Parse(layoutOpen + `
    <h1 style="margin: 0 0 16px; font-size: 20px;">New Meeting Request</h1>
    <p><strong>{{.RequesterName}}</strong> has requested a meeting.</p>
    <p><strong>Dispute:</strong> {{.DisputeTitle}}</p>
    <p><strong>Proposed time:</strong> {{.When}}</p>
    {{if .NotesHTML}}<div><strong>Notes:</strong> {{.NotesHTML}}</div>{{end}}
` + layoutClose))

var meetingStatusTmpl = template.Must(template.New("meetingStatus").Parse(layoutOpen + `
    <h1 style="margin: 0 0 16px; font-size: 20px;">Meeting {{.Status}}</h1>
    <p><strong>Dispute:</strong> {{.DisputeTitle}}</p>
    <p><strong>Time:</strong> {{.When}}</p>
    {{if .MeetingLink}}<p><a href="{{.MeetingLink}}">Join meeting</a></p>{{end}}
    {{if .NotesHTML}}<div><strong>Notes:</strong> {{.NotesHTML}}</div>{{end}}
` + layoutClose))
