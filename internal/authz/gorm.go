package authz

import (
	"context"
	"errors"
	"fmt"

	"shepherd/internal/apperrors"

	"gorm.io/gorm"
)

// GormStore resolves assignments and church memberships straight from the
// relational store. It scans narrow row structs by table name so the package
// stays decoupled from the model definitions.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

type userAssignmentRow struct {
	ChurchID   string
	DistrictID string
	FieldID    string
}

func (s *GormStore) UserAssignments(ctx context.Context, userID string) (Assignments, error) {
	var row userAssignmentRow
	err := s.db.WithContext(ctx).
		Table("users").
		Select("church_id", "district_id", "field_id").
		Where("id = ? AND is_deleted = ?", userID, false).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Assignments{}, fmt.Errorf("%w: user %s", apperrors.ErrNotFound, userID)
		}
		return Assignments{}, err
	}

	var assigned []string
	if err := s.db.WithContext(ctx).
		Table("user_church_assignments").
		Where("user_id = ?", userID).
		Pluck("church_id", &assigned).Error; err != nil {
		return Assignments{}, err
	}

	return Assignments{
		ChurchID:          row.ChurchID,
		DistrictID:        row.DistrictID,
		FieldID:           row.FieldID,
		AssignedChurchIDs: assigned,
	}, nil
}

func (s *GormStore) ChurchIDsByField(ctx context.Context, fieldID string) ([]string, error) {
	var ids []string
	err := s.db.WithContext(ctx).
		Table("churches").
		Where("field_id = ? AND is_deleted = ?", fieldID, false).
		Pluck("id", &ids).Error
	return ids, err
}

func (s *GormStore) ChurchIDsByDistrict(ctx context.Context, districtID string) ([]string, error) {
	var ids []string
	err := s.db.WithContext(ctx).
		Table("churches").
		Where("district_id = ? AND is_deleted = ?", districtID, false).
		Pluck("id", &ids).Error
	return ids, err
}
