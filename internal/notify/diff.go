package notify

import (
	"time"

	"meeting-management-api/internal/model"
)

// timestamps are rendered in a readable local date-time form, matching the
// locale the notifications use
const timeLayout = "02.01.2006 15:04"

// Change is one row of the update-notification table: a field whose
// stringified value differs between the prior and current meeting record.
type Change struct {
	Key string // message id of the field label, e.g. "field.end_date"
	Old string
	New string
}

// Diff compares the prior snapshot against the mutated record and returns
// one Change per field whose stringified values differ. Unchanged fields
// are omitted.
func Diff(old, current *model.Meeting) []Change {
	var rows []Change
	add := func(key, oldVal, newVal string) {
		if oldVal != newVal {
			rows = append(rows, Change{Key: key, Old: oldVal, New: newVal})
		}
	}

	add("field.title", old.Title, current.Title)
	add("field.description", old.Description, current.Description)
	add("field.start_date", formatTime(old.StartDate), formatTime(current.StartDate))
	add("field.end_date", formatTime(old.EndDate), formatTime(current.EndDate))
	add("field.participants", old.Participants, current.Participants)
	add("field.status", old.Status, current.Status)
	add("field.document", old.Document, current.Document)

	return rows
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format(timeLayout)
}
