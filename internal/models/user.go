package models

import (
	"shepherd/internal/authz"
	"shepherd/internal/events"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// User carries the assignment fields consulted during scope resolution
// alongside the usual account columns. ChurchID/DistrictID/FieldID are
// nullable; AssignedChurches may be empty.
type User struct {
	Base
	Email      string     `gorm:"uniqueIndex;not null" json:"email" validate:"required,email"`
	Password   string     `gorm:"not null" json:"-"`
	FirstName  string     `json:"firstName"`
	LastName   string     `json:"lastName"`
	Role       authz.Role `gorm:"not null;default:'bibleworker'" json:"role" validate:"required,user_role"`
	ChurchID   string     `gorm:"type:uuid;default:NULL" json:"churchId,omitempty" validate:"omitempty,uuid"`
	Church     *Church    `json:"church,omitempty"`
	DistrictID string     `gorm:"type:uuid;default:NULL" json:"districtId,omitempty" validate:"omitempty,uuid"`
	District   *District  `json:"district,omitempty"`
	FieldID    string     `gorm:"type:uuid;default:NULL" json:"fieldId,omitempty" validate:"omitempty,uuid"`
	Field      *Field     `json:"field,omitempty"`
	// AssignedChurches overrides the single ChurchID for church-scoped
	// roles that cover several congregations.
	AssignedChurches []Church       `gorm:"many2many:user_church_assignments" json:"assignedChurches,omitempty"`
	Preferences      datatypes.JSON `gorm:"type:jsonb" json:"preferences,omitempty"`
}

func (u *User) AfterUpdate(tx *gorm.DB) error {
	// Assignments may have changed; cached scopes are stale.
	events.Emit("user.updated", u)
	return nil
}
