package models

import (
	"gorm.io/gorm"
)

// GetUserByID retrieves a user with their church assignments preloaded
func GetUserByID(id string, db *gorm.DB) (*User, error) {
	user := &User{}
	if err := db.Preload("AssignedChurches").Where("id = ? AND is_deleted = false", id).First(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// GetEventByID retrieves an event from the database by its id
func GetEventByID(id string, db *gorm.DB) (*Event, error) {
	event := &Event{}
	if err := db.Where("id = ? AND is_deleted = false", id).First(event).Error; err != nil {
		return nil, err
	}
	return event, nil
}
