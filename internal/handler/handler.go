// Package handler exposes the HTTP surface: thin gin handlers that bind
// requests, call the services and shape the JSON responses.
package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"meeting-management-api/internal/mail"
	"meeting-management-api/internal/meeting"
	"meeting-management-api/internal/notify"
	"meeting-management-api/internal/store"
	"meeting-management-api/internal/upload"
)

type Handler struct {
	store    *store.Store
	meetings *meeting.Service
	uploads  *upload.Storage
	mailer   mail.Mailer
	notifier *notify.Notifier
	secret   string
}

func New(st *store.Store, meetings *meeting.Service, uploads *upload.Storage, mailer mail.Mailer, notifier *notify.Notifier, secret string) *Handler {
	return &Handler{
		store:    st,
		meetings: meetings,
		uploads:  uploads,
		mailer:   mailer,
		notifier: notifier,
		secret:   secret,
	}
}

// failure responses carry a message plus the raw underlying error; mail
// and persistence failures are indistinguishable to the caller.
func respondError(c *gin.Context, code int, msg string, err error) {
	body := gin.H{"message": msg}
	if err != nil {
		body["error"] = err.Error()
	}
	c.JSON(code, body)
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02",
}

func parseDate(v string) (time.Time, error) {
	var err error
	for _, layout := range dateLayouts {
		var t time.Time
		if t, err = time.Parse(layout, v); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}
