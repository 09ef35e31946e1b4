package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base contains common columns for all tables
type Base struct {
	ID        string    `gorm:"type:uuid;primary_key" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	DeletedAt time.Time `gorm:"index;default:NULL" json:"-" validate:"omitempty"`
	IsDeleted bool      `json:"isDeleted" default:"false"`
}

// BeforeCreate will set a UUID rather than numeric ID
func (base *Base) BeforeCreate(tx *gorm.DB) error {
	if base.ID == "" {
		base.ID = uuid.New().String()
	}
	return nil
}

// RegistrationStatus tracks an event registration through its lifecycle.
type RegistrationStatus string

const (
	RegistrationStatusRegistered RegistrationStatus = "registered"
	RegistrationStatusAttended   RegistrationStatus = "attended"
	RegistrationStatusNoShow     RegistrationStatus = "no_show"
	RegistrationStatusCancelled  RegistrationStatus = "cancelled"
	RegistrationStatusConfirmed  RegistrationStatus = "confirmed"
)

// IsValidRegistrationStatus checks if a given status is valid
func IsValidRegistrationStatus(status RegistrationStatus) bool {
	switch status {
	case RegistrationStatusRegistered, RegistrationStatusAttended,
		RegistrationStatusNoShow, RegistrationStatusCancelled,
		RegistrationStatusConfirmed:
		return true
	default:
		return false
	}
}

// TransferStatus tracks a membership transfer request.
type TransferStatus string

const (
	TransferStatusPending  TransferStatus = "pending"
	TransferStatusApproved TransferStatus = "approved"
	TransferStatusRejected TransferStatus = "rejected"
)

// MemberStatus distinguishes active members from transferred/removed ones.
type MemberStatus string

const (
	MemberStatusActive      MemberStatus = "active"
	MemberStatusTransferred MemberStatus = "transferred"
	MemberStatusInactive    MemberStatus = "inactive"
)
