// internal/models/job.go
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type JobStatus string

const (
	JobStatusOpen       JobStatus = "open"
	JobStatusInProgress JobStatus = "in_progress"
	JobStatusCompleted  JobStatus = "completed"
)

// CanTransitionTo reports whether the job lifecycle allows moving from s to next.
// A job never returns to open.
func (s JobStatus) CanTransitionTo(next JobStatus) bool {
	switch s {
	case JobStatusOpen:
		return next == JobStatusInProgress
	case JobStatusInProgress:
		return next == JobStatusCompleted
	}
	return false
}

// HasAcceptedBid reports whether a job in this status must carry an accepted bid.
func (s JobStatus) HasAcceptedBid() bool {
	return s == JobStatusInProgress || s == JobStatusCompleted
}

type Job struct {
	ID       uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ClientID uuid.UUID `gorm:"type:uuid;index;not null" json:"client_id"`

	Title       string         `gorm:"not null" json:"title"`
	Description string         `gorm:"type:text;not null" json:"description"`
	Skills      pq.StringArray `gorm:"type:text[]" json:"skills"`
	Budget      int64          `gorm:"not null" json:"budget"`
	Deadline    time.Time      `gorm:"not null" json:"deadline"`

	Status        JobStatus  `gorm:"type:varchar(20);not null;default:'open';index" json:"status"`
	AcceptedBidID *uuid.UUID `gorm:"type:uuid" json:"accepted_bid_id"`

	// soft-deleted jobs vanish from listings but stay addressable by id for their owner
	IsDeleted bool `gorm:"not null;default:false;index" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// filled by listing queries from users.name; never the full owner record
	ClientName string `gorm:"->;-:migration" json:"client_name,omitempty"`
}

func (j *Job) BeforeCreate(tx *gorm.DB) (err error) {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	return
}

func (j *Job) IsOwnedBy(userID uuid.UUID) bool {
	return j.ClientID == userID
}

// AcceptsBids reports whether new bids may be placed against the job.
func (j *Job) AcceptsBids() bool {
	return !j.IsDeleted && j.Status == JobStatusOpen
}

// Consistent checks that the accepted bid pointer agrees with the status.
func (j *Job) Consistent() bool {
	return (j.AcceptedBidID != nil) == j.Status.HasAcceptedBid()
}
