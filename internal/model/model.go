package model

import "time"

const (
	StatusActive    = "active"
	StatusCancelled = "cancelled"
)

type User struct {
	ID           string    `json:"id"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	PasswordHash string    `json:"-"`
	ProfileImage string    `json:"profileImage,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type Meeting struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
	// Participants is the raw comma-separated email string, stored exactly
	// as submitted. Trimming and dedup happen at send-time only.
	Participants string    `json:"participants"`
	Document     string    `json:"document,omitempty"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// DeletionLog is written right before a meeting is hard-deleted. It is the
// only durable trace of the deletion.
type DeletionLog struct {
	ID        string    `json:"id"`
	MeetingID string    `json:"meetingId"`
	Reason    string    `json:"reason"`
	DeletedAt time.Time `json:"deletedAt"`
}
