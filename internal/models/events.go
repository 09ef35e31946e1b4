package models

import (
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Event is a church or field level gathering members and visitors register
// for.
type Event struct {
	Base
	Title       string         `gorm:"not null" json:"title" validate:"required,min=2"`
	Description string         `json:"description"`
	ChurchID    string         `gorm:"type:uuid;default:NULL;index" json:"churchId,omitempty" validate:"omitempty,uuid"`
	Church      *Church        `json:"church,omitempty"`
	StartsAt    time.Time      `gorm:"not null" json:"startsAt" validate:"required"`
	EndsAt      time.Time      `gorm:"not null" json:"endsAt" validate:"required,gtfield=StartsAt"`
	Capacity    int            `json:"capacity" validate:"omitempty,min=0"`
	Metadata    datatypes.JSON `gorm:"type:jsonb" json:"metadata,omitempty"`
}

// EventRegistration ties exactly one member or one visitor to an event.
// Once FinalConfirmedAt is set the row is locked: no workflow operation may
// mutate its status or confirmation fields again.
type EventRegistration struct {
	Base
	EventID   string             `gorm:"type:uuid;not null;index" json:"eventId" validate:"required,uuid"`
	Event     *Event             `json:"event,omitempty"`
	MemberID  string             `gorm:"type:uuid;default:NULL;index" json:"memberId,omitempty" validate:"omitempty,uuid"`
	Member    *Member            `json:"member,omitempty"`
	VisitorID string             `gorm:"type:uuid;default:NULL;index" json:"visitorId,omitempty" validate:"omitempty,uuid"`
	Visitor   *Visitor           `json:"visitor,omitempty"`
	Status    RegistrationStatus `gorm:"not null;default:'registered'" json:"status" validate:"omitempty,registration_status"`

	RegisteredByID string `gorm:"type:uuid;not null" json:"registeredById"`
	RegisteredBy   *User  `json:"registeredBy,omitempty"`
	Notes          string `json:"notes"`

	// Set together when attendance is confirmed, cleared together on revert.
	AttendanceConfirmedAt *time.Time `json:"attendanceConfirmedAt,omitempty"`
	AttendanceConfirmedBy string     `gorm:"type:uuid;default:NULL" json:"attendanceConfirmedBy,omitempty"`

	// Set together by finalize; never cleared.
	FinalConfirmedAt *time.Time `json:"finalConfirmedAt,omitempty"`
	FinalConfirmedBy string     `gorm:"type:uuid;default:NULL" json:"finalConfirmedBy,omitempty"`
}

// Locked reports whether finalize has stamped this row.
func (r *EventRegistration) Locked() bool {
	return r.FinalConfirmedAt != nil
}

func (r *EventRegistration) BeforeCreate(tx *gorm.DB) error {
	if err := r.Base.BeforeCreate(tx); err != nil {
		return err
	}
	// Exactly one of MemberID / VisitorID, never both, never neither.
	if (r.MemberID == "") == (r.VisitorID == "") {
		return fmt.Errorf("registration requires exactly one of memberId or visitorId")
	}
	return nil
}
