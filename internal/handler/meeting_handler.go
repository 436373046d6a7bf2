package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"meeting-management-api/internal/meeting"
	"meeting-management-api/internal/store"
)

// CreateMeeting handles POST /meetings (multipart). Title and both dates
// are required; participants may be an empty string. Date ordering, email
// format and file type are deliberately not validated.
func (h *Handler) CreateMeeting(c *gin.Context) {
	title := c.PostForm("title")
	startRaw := c.PostForm("startDate")
	endRaw := c.PostForm("endDate")
	if title == "" || startRaw == "" || endRaw == "" {
		respondError(c, http.StatusBadRequest, "title, startDate and endDate are required", nil)
		return
	}

	start, err := parseDate(startRaw)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid startDate", err)
		return
	}
	end, err := parseDate(endRaw)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid endDate", err)
		return
	}

	document := ""
	if fh, err := c.FormFile("document"); err == nil {
		name, err := h.uploads.Save(fh)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "could not store document", err)
			return
		}
		document = name
	}

	m, err := h.meetings.Create(c.Request.Context(), meeting.CreateInput{
		Title:        title,
		Description:  c.PostForm("description"),
		StartDate:    start,
		EndDate:      end,
		Participants: c.PostForm("participants"),
		Document:     document,
	})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "could not create meeting", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "meeting created", "meeting": m})
}

func (h *Handler) ListMeetings(c *gin.Context) {
	meetings, err := h.meetings.List(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "could not list meetings", err)
		return
	}
	c.JSON(http.StatusOK, meetings)
}

func (h *Handler) GetMeeting(c *gin.Context) {
	m, err := h.meetings.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(c, http.StatusNotFound, "meeting not found", err)
			return
		}
		respondError(c, http.StatusInternalServerError, "could not get meeting", err)
		return
	}
	c.JSON(http.StatusOK, m)
}

// UpdateMeeting handles PUT /meetings/:id (multipart, partial). Absent or
// empty fields keep the stored values; an empty participants value keeps
// the existing list rather than clearing it.
func (h *Handler) UpdateMeeting(c *gin.Context) {
	var start, end *time.Time
	if v := c.PostForm("startDate"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid startDate", err)
			return
		}
		start = &t
	}
	if v := c.PostForm("endDate"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid endDate", err)
			return
		}
		end = &t
	}

	document := ""
	if fh, err := c.FormFile("document"); err == nil {
		name, err := h.uploads.Save(fh)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "could not store document", err)
			return
		}
		document = name
	}

	m, err := h.meetings.Update(c.Request.Context(), c.Param("id"), meeting.UpdateInput{
		Title:        c.PostForm("title"),
		Description:  c.PostForm("description"),
		StartDate:    start,
		EndDate:      end,
		Participants: c.PostForm("participants"),
		Status:       c.PostForm("status"),
		Document:     document,
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(c, http.StatusNotFound, "meeting not found", err)
			return
		}
		respondError(c, http.StatusInternalServerError, "could not update meeting", err)
		return
	}

	c.JSON(http.StatusOK, m)
}

// CancelMeeting handles PATCH /meetings/:id/cancel. It only touches the
// status field and is not guarded against repeat cancellation.
func (h *Handler) CancelMeeting(c *gin.Context) {
	m, err := h.meetings.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(c, http.StatusNotFound, "meeting not found", err)
			return
		}
		respondError(c, http.StatusInternalServerError, "could not cancel meeting", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "meeting cancelled", "meeting": m})
}

// DeleteMeeting handles DELETE /meetings/:id. The row is hard-deleted
// after the deletion log is written; there is no recovery.
func (h *Handler) DeleteMeeting(c *gin.Context) {
	if err := h.meetings.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(c, http.StatusNotFound, "meeting not found", err)
			return
		}
		respondError(c, http.StatusInternalServerError, "could not delete meeting", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "meeting deleted"})
}
