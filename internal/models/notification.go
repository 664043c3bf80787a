package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type NotificationKind string

const (
	NotifyOTP             NotificationKind = "otp"
	NotifyVerified        NotificationKind = "verified"
	NotifyPasswordReset   NotificationKind = "password_reset"
	NotifyBidPlaced       NotificationKind = "bid_placed"
	NotifyBidAccepted     NotificationKind = "bid_accepted"
	NotifyBidRejected     NotificationKind = "bid_rejected"
	NotifyJobCompleted    NotificationKind = "job_completed"
	NotifyMessageReceived NotificationKind = "message"
)

type NotificationStatus string

const (
	NotificationSent   NotificationStatus = "sent"
	NotificationFailed NotificationStatus = "failed"
)

// Notification records the outcome of one outbound side effect.
type Notification struct {
	ID      uuid.UUID          `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID  *uuid.UUID         `gorm:"type:uuid;index" json:"user_id,omitempty"`
	Kind    NotificationKind   `gorm:"type:varchar(30);not null;index" json:"kind"`
	Email   string             `gorm:"type:varchar(150)" json:"email"`
	Payload datatypes.JSON     `json:"payload"`
	Status  NotificationStatus `gorm:"type:varchar(20);not null" json:"status"`
	Error   string             `gorm:"type:text" json:"error,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) (err error) {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return
}
