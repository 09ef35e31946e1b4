package models

import (
	"time"

	"shepherd/internal/events"

	"gorm.io/gorm"
)

// TransferRequest moves a member between churches. Rejection requires a
// reason of at least MinTransferReasonLen characters.
type TransferRequest struct {
	Base
	MemberID      string         `gorm:"type:uuid;not null;index" json:"memberId" validate:"required,uuid"`
	Member        *Member        `json:"member,omitempty"`
	FromChurchID  string         `gorm:"type:uuid;not null" json:"fromChurchId" validate:"required,uuid"`
	FromChurch    *Church        `json:"fromChurch,omitempty"`
	ToChurchID    string         `gorm:"type:uuid;not null" json:"toChurchId" validate:"required,uuid"`
	ToChurch      *Church        `json:"toChurch,omitempty"`
	Status        TransferStatus `gorm:"not null;default:'pending'" json:"status" validate:"omitempty,transfer_status"`
	Reason        string         `json:"reason"`
	RequestedByID string         `gorm:"type:uuid;not null" json:"requestedById"`
	RequestedBy   *User          `json:"requestedBy,omitempty"`
	DecidedByID   string         `gorm:"type:uuid;default:NULL" json:"decidedById,omitempty"`
	DecidedAt     *time.Time     `json:"decidedAt,omitempty"`
}

// MinTransferReasonLen is the minimum length of a rejection reason.
const MinTransferReasonLen = 10

func (t *TransferRequest) AfterCreate(tx *gorm.DB) error {
	events.Emit("transfer.created", t)
	return nil
}
