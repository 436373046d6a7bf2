package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"meeting-management-api/internal/model"
)

func (s *Store) CreateMeeting(ctx context.Context, m *model.Meeting) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO meetings (id, title, description, start_date, end_date, participants, document, status)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		m.ID, m.Title, m.Description, m.StartDate, m.EndDate, m.Participants, m.Document, m.Status,
	)
	return err
}

func (s *Store) GetMeeting(ctx context.Context, id string) (*model.Meeting, error) {
	m := &model.Meeting{}
	err := s.pool.QueryRow(ctx,
		`SELECT id, title, description, start_date, end_date, participants, document, status, created_at, updated_at
		 FROM meetings WHERE id = $1`, id,
	).Scan(&m.ID, &m.Title, &m.Description, &m.StartDate, &m.EndDate,
		&m.Participants, &m.Document, &m.Status, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (s *Store) ListMeetings(ctx context.Context) ([]model.Meeting, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, title, description, start_date, end_date, participants, document, status, created_at, updated_at
		 FROM meetings ORDER BY start_date`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Meeting
	for rows.Next() {
		var m model.Meeting
		if err := rows.Scan(
			&m.ID, &m.Title, &m.Description, &m.StartDate, &m.EndDate,
			&m.Participants, &m.Document, &m.Status, &m.CreatedAt, &m.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *Store) UpdateMeeting(ctx context.Context, m *model.Meeting) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE meetings
		 SET title=$1, description=$2, start_date=$3, end_date=$4,
		     participants=$5, document=$6, status=$7, updated_at=NOW()
		 WHERE id=$8`,
		m.Title, m.Description, m.StartDate, m.EndDate, m.Participants, m.Document, m.Status, m.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteMeeting hard-removes the row. The deletion log is written in the
// same transaction so the audit record never outruns the delete.
func (s *Store) DeleteMeeting(ctx context.Context, id string, lg *model.DeletionLog) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO deletion_logs (id, meeting_id, reason, deleted_at) VALUES ($1,$2,$3,$4)`,
		lg.ID, lg.MeetingID, lg.Reason, lg.DeletedAt,
	)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `DELETE FROM meetings WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return tx.Commit(ctx)
}
