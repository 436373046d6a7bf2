// Package meeting implements the meeting lifecycle: create, read, update
// with diff-based notifications, cancel and hard delete.
package meeting

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"meeting-management-api/internal/mail"
	"meeting-management-api/internal/metrics"
	"meeting-management-api/internal/model"
	"meeting-management-api/internal/notify"
)

// Store is the persistence port the service depends on. *store.Store
// satisfies it; tests use an in-memory double.
type Store interface {
	CreateMeeting(ctx context.Context, m *model.Meeting) error
	GetMeeting(ctx context.Context, id string) (*model.Meeting, error)
	ListMeetings(ctx context.Context) ([]model.Meeting, error)
	UpdateMeeting(ctx context.Context, m *model.Meeting) error
	DeleteMeeting(ctx context.Context, id string, lg *model.DeletionLog) error
}

type Service struct {
	store    Store
	mailer   mail.Mailer
	notifier *notify.Notifier
}

func NewService(st Store, mailer mail.Mailer, notifier *notify.Notifier) *Service {
	return &Service{store: st, mailer: mailer, notifier: notifier}
}

type CreateInput struct {
	Title        string
	Description  string
	StartDate    time.Time
	EndDate      time.Time
	Participants string
	Document     string
}

// UpdateInput carries partial fields. Nil dates and empty strings mean
// "keep the stored value". This includes Participants, where an empty
// string intentionally does not clear the list.
type UpdateInput struct {
	Title        string
	Description  string
	StartDate    *time.Time
	EndDate      *time.Time
	Participants string
	Status       string
	Document     string
}

// Create persists a new active meeting and notifies every participant.
// A mail-transport failure fails the whole call even though the row is
// already durable; there is no retry.
func (s *Service) Create(ctx context.Context, in CreateInput) (*model.Meeting, error) {
	m := &model.Meeting{
		ID:           uuid.New().String(),
		Title:        in.Title,
		Description:  in.Description,
		StartDate:    in.StartDate,
		EndDate:      in.EndDate,
		Participants: in.Participants,
		Document:     in.Document,
		Status:       model.StatusActive,
	}
	if err := s.store.CreateMeeting(ctx, m); err != nil {
		return nil, fmt.Errorf("create meeting: %w", err)
	}

	subject, body := s.notifier.MeetingCreated(m)
	if err := s.send(ctx, "created", m.Participants, subject, body); err != nil {
		return nil, fmt.Errorf("creation notification: %w", err)
	}
	return m, nil
}

// send dispatches one notification and records the outcome. An empty
// recipient list is a silent no-op.
func (s *Service) send(ctx context.Context, event, recipients, subject, body string) error {
	if len(mail.Recipients(recipients)) == 0 {
		metrics.RecordNotification(event, "skipped")
		return nil
	}
	if err := s.mailer.Send(ctx, recipients, subject, body); err != nil {
		metrics.RecordNotification(event, "failed")
		return err
	}
	metrics.RecordNotification(event, "sent")
	return nil
}

func (s *Service) Get(ctx context.Context, id string) (*model.Meeting, error) {
	return s.store.GetMeeting(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]model.Meeting, error) {
	return s.store.ListMeetings(ctx)
}

// Update overwrites the stored values with the present, non-empty input
// fields, then notifies the union of the prior and current participant
// sets with a table of the changed fields. An update that changes nothing
// still sends a generic notice; an empty merged recipient set skips the
// notification entirely.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*model.Meeting, error) {
	current, err := s.store.GetMeeting(ctx, id)
	if err != nil {
		return nil, err
	}
	prior := *current

	if in.Title != "" {
		current.Title = in.Title
	}
	if in.Description != "" {
		current.Description = in.Description
	}
	if in.StartDate != nil {
		current.StartDate = *in.StartDate
	}
	if in.EndDate != nil {
		current.EndDate = *in.EndDate
	}
	if in.Participants != "" {
		current.Participants = in.Participants
	}
	if in.Status != "" {
		current.Status = in.Status
	}
	if in.Document != "" {
		current.Document = in.Document
	}

	if err := s.store.UpdateMeeting(ctx, current); err != nil {
		return nil, fmt.Errorf("update meeting: %w", err)
	}

	recipients := mail.MergeRecipients(prior.Participants, current.Participants)
	if len(recipients) == 0 {
		return current, nil
	}

	changes := notify.Diff(&prior, current)
	subject, body := s.notifier.MeetingUpdated(current, changes)
	if err := s.send(ctx, "updated", strings.Join(recipients, ","), subject, body); err != nil {
		return nil, fmt.Errorf("update notification: %w", err)
	}
	return current, nil
}

// Cancel sets status to cancelled and notifies the current participants.
// Cancelling an already-cancelled meeting is not guarded against.
func (s *Service) Cancel(ctx context.Context, id string) (*model.Meeting, error) {
	m, err := s.store.GetMeeting(ctx, id)
	if err != nil {
		return nil, err
	}
	m.Status = model.StatusCancelled
	if err := s.store.UpdateMeeting(ctx, m); err != nil {
		return nil, fmt.Errorf("cancel meeting: %w", err)
	}

	subject, body := s.notifier.MeetingCancelled(m)
	if err := s.send(ctx, "cancelled", m.Participants, subject, body); err != nil {
		return nil, fmt.Errorf("cancellation notification: %w", err)
	}
	return m, nil
}

// Delete writes the deletion log and hard-removes the row, then notifies
// the pre-deletion participant list. There is no recovery afterwards.
func (s *Service) Delete(ctx context.Context, id string) error {
	m, err := s.store.GetMeeting(ctx, id)
	if err != nil {
		return err
	}

	lg := &model.DeletionLog{
		ID:        uuid.New().String(),
		MeetingID: m.ID,
		Reason:    s.notifier.DeletionReason(),
		DeletedAt: time.Now(),
	}
	if err := s.store.DeleteMeeting(ctx, id, lg); err != nil {
		return fmt.Errorf("delete meeting: %w", err)
	}

	subject, body := s.notifier.MeetingDeleted(m)
	if err := s.send(ctx, "deleted", m.Participants, subject, body); err != nil {
		return fmt.Errorf("deletion notification: %w", err)
	}
	return nil
}
