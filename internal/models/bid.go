// internal/models/bid.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BidStatus string

const (
	BidStatusPending  BidStatus = "pending"
	BidStatusAccepted BidStatus = "accepted"
	BidStatusRejected BidStatus = "rejected"
)

// Terminal reports whether no further transition is allowed.
func (s BidStatus) Terminal() bool {
	return s == BidStatusAccepted || s == BidStatusRejected
}

func (s BidStatus) CanTransitionTo(next BidStatus) bool {
	return s == BidStatusPending && next.Terminal()
}

type Bid struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	JobID        uuid.UUID `gorm:"type:uuid;index;not null" json:"job_id"`
	FreelancerID uuid.UUID `gorm:"type:uuid;index;not null" json:"freelancer_id"`

	Proposal     string `gorm:"type:text;not null" json:"proposal"`
	Amount       int64  `gorm:"not null" json:"amount"`
	DeliveryDays int    `gorm:"not null" json:"delivery_days"`

	Status BidStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// read-only projections filled by the listing queries
	JobTitle       string `gorm:"->;-:migration" json:"job_title,omitempty"`
	FreelancerName string `gorm:"->;-:migration" json:"freelancer_name,omitempty"`
}

func (b *Bid) BeforeCreate(tx *gorm.DB) (err error) {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return
}
