package models

import (
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"

	"shepherd/internal/authz"

	console "shepherd/internal/utils/logger"

	"gorm.io/gorm"
)

var log = console.New("SEEDER")

// CreateSuperAdminFromEnv bootstraps the first superadmin account. A
// superadmin carries national scope, so no organizational assignments are
// needed.
func CreateSuperAdminFromEnv(db *gorm.DB) error {
	role := authz.RoleSuperAdmin

	// check if super admin already exists
	var count int64
	db.Model(&User{}).Where("role = ?", role).Count(&count)
	if count > 0 {
		return nil
	}

	email, ok := os.LookupEnv("SUPERADMIN_EMAIL")
	if !ok {
		return fmt.Errorf("SUPERADMIN_EMAIL not set")
	}

	password, ok := os.LookupEnv("SUPERADMIN_PASSWORD")
	if !ok {
		return fmt.Errorf("SUPERADMIN_PASSWORD not set")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %v", err)
	}

	name, ok := os.LookupEnv("SUPERADMIN_NAME")
	if !ok {
		return fmt.Errorf("SUPERADMIN_NAME not set")
	}

	user := User{
		FirstName: name,
		LastName:  "",
		Email:     email,
		Role:      role,
		Password:  string(hashedPassword),
	}

	if err := db.Create(&user).Error; err != nil {
		return fmt.Errorf("failed to create superadmin user: %v", err)
	}

	log.Success("Created superadmin %s", email)
	return nil
}

// SeedDemoOrganization creates a minimal field/district/church tree for
// fresh local databases. It is a no-op when any church already exists.
func SeedDemoOrganization(db *gorm.DB) error {
	var count int64
	db.Model(&Church{}).Count(&count)
	if count > 0 {
		return nil
	}

	field := Field{Name: "Central Field"}
	if err := db.FirstOrCreate(&field, Field{Name: field.Name}).Error; err != nil {
		return fmt.Errorf("failed to create field: %v", err)
	}

	district := District{Name: "North District", FieldID: field.ID}
	if err := db.FirstOrCreate(&district, District{Name: district.Name, FieldID: field.ID}).Error; err != nil {
		return fmt.Errorf("failed to create district: %v", err)
	}

	church := Church{Name: "First Church", FieldID: field.ID, DistrictID: district.ID}
	if err := db.Create(&church).Error; err != nil {
		return fmt.Errorf("failed to create church: %v", err)
	}

	log.Success("Seeded demo organization")
	return nil
}
