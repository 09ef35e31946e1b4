package models

import (
	"shepherd/internal/events"

	"gorm.io/gorm"
)

func (r *EventRegistration) AfterCreate(tx *gorm.DB) error {
	events.Emit("registration.created", r)
	return nil
}

func (m *Member) AfterCreate(tx *gorm.DB) error {
	events.Emit("member.created", m)
	return nil
}
