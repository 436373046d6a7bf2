// Package notify builds the localized subjects and HTML bodies for the
// lifecycle notification emails.
package notify

import (
	"html"
	"strings"

	"meeting-management-api/internal/model"
)

type Notifier struct {
	t *Translator
}

func New(t *Translator) *Notifier {
	return &Notifier{t: t}
}

func (n *Notifier) Welcome(firstName, lastName string) (subject, body string) {
	subject = n.t.T("subject.welcome", nil)
	body = n.t.T("body.welcome", map[string]any{
		"FirstName": html.EscapeString(firstName),
		"LastName":  html.EscapeString(lastName),
	})
	return subject, body
}

func (n *Notifier) MeetingCreated(m *model.Meeting) (subject, body string) {
	subject = n.t.T("subject.meeting_created", map[string]any{"Title": m.Title})
	body = n.t.T("body.meeting_created", n.meetingData(m))
	return subject, body
}

// MeetingUpdated renders the change table computed from the update diff.
// With no changed rows it falls back to a generic updated notice.
func (n *Notifier) MeetingUpdated(m *model.Meeting, changes []Change) (subject, body string) {
	subject = n.t.T("subject.meeting_updated", map[string]any{"Title": m.Title})
	if len(changes) == 0 {
		body = n.t.T("body.meeting_updated_nochange", n.meetingData(m))
		return subject, body
	}
	body = n.t.T("body.meeting_updated", map[string]any{
		"Title":       html.EscapeString(m.Title),
		"ChangeTable": n.changeTable(changes),
	})
	return subject, body
}

func (n *Notifier) MeetingCancelled(m *model.Meeting) (subject, body string) {
	subject = n.t.T("subject.meeting_cancelled", map[string]any{"Title": m.Title})
	body = n.t.T("body.meeting_cancelled", n.meetingData(m))
	return subject, body
}

func (n *Notifier) MeetingDeleted(m *model.Meeting) (subject, body string) {
	subject = n.t.T("subject.meeting_deleted", map[string]any{"Title": m.Title})
	body = n.t.T("body.meeting_deleted", n.meetingData(m))
	return subject, body
}

// DeletionReason is the audit-log reason recorded before a hard delete.
func (n *Notifier) DeletionReason() string {
	return n.t.T("value.deletion_reason", nil)
}

func (n *Notifier) meetingData(m *model.Meeting) map[string]any {
	description := m.Description
	if description == "" {
		description = n.t.T("value.none", nil)
	}
	return map[string]any{
		"Title":       html.EscapeString(m.Title),
		"Description": html.EscapeString(description),
		"Start":       formatTime(m.StartDate),
		"End":         formatTime(m.EndDate),
	}
}

func (n *Notifier) changeTable(changes []Change) string {
	var b strings.Builder
	b.WriteString(`<table border="1" cellpadding="6" cellspacing="0">`)
	b.WriteString("<tr><th>")
	b.WriteString(n.t.T("table.field", nil))
	b.WriteString("</th><th>")
	b.WriteString(n.t.T("table.old", nil))
	b.WriteString("</th><th>")
	b.WriteString(n.t.T("table.new", nil))
	b.WriteString("</th></tr>")
	for _, c := range changes {
		b.WriteString("<tr><td>")
		b.WriteString(n.t.T(c.Key, nil))
		b.WriteString("</td><td>")
		b.WriteString(html.EscapeString(c.Old))
		b.WriteString("</td><td>")
		b.WriteString(html.EscapeString(c.New))
		b.WriteString("</td></tr>")
	}
	b.WriteString("</table>")
	return b.String()
}
