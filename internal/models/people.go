package models

import "time"

// Member is a baptized church member.
type Member struct {
	Base
	FirstName   string       `gorm:"not null" json:"firstName" validate:"required,min=2"`
	LastName    string       `gorm:"not null" json:"lastName" validate:"required,min=2"`
	Email       string       `gorm:"index" json:"email" validate:"omitempty,email"`
	Phone       string       `json:"phone"`
	ChurchID    string       `gorm:"type:uuid;not null;index" json:"churchId" validate:"required,uuid"`
	Church      *Church      `json:"church,omitempty"`
	Status      MemberStatus `gorm:"not null;default:'active'" json:"status" validate:"omitempty,oneof=active transferred inactive"`
	BaptizedAt  *time.Time   `json:"baptizedAt,omitempty"`
	DateOfBirth *time.Time   `json:"dateOfBirth,omitempty"`
}

// Visitor is an unbaptized contact tracked by bibleworkers; visitors can be
// registered for events just like members.
type Visitor struct {
	Base
	FirstName   string  `gorm:"not null" json:"firstName" validate:"required,min=2"`
	LastName    string  `gorm:"not null" json:"lastName" validate:"required,min=2"`
	Email       string  `json:"email" validate:"omitempty,email"`
	Phone       string  `json:"phone"`
	ChurchID    string  `gorm:"type:uuid;not null;index" json:"churchId" validate:"required,uuid"`
	Church      *Church `json:"church,omitempty"`
	InvitedByID string  `gorm:"type:uuid;default:NULL" json:"invitedById,omitempty" validate:"omitempty,uuid"`
	InvitedBy   *User   `json:"invitedBy,omitempty"`
	Notes       string  `json:"notes"`
}
