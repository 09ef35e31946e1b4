package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shepherd/internal/apperrors"
	"shepherd/internal/models"

	"gorm.io/gorm"
)

// RegistrationStore is the slice of the relational store the attendance
// workflow needs. Conditional updates carry the concurrency guarantees; the
// workflow never takes application-level locks.
type RegistrationStore interface {
	Get(ctx context.Context, id string) (*models.EventRegistration, error)
	Create(ctx context.Context, reg *models.EventRegistration) error
	// Update applies the field set only while the row still has status
	// `from` and is not locked. Returns rows affected.
	Update(ctx context.Context, id string, from models.RegistrationStatus, fields map[string]interface{}) (int64, error)
	// FinalizeEvent stamps the final-confirmation pair on every attended or
	// no_show row of the event that is not already locked, leaving status
	// untouched. Returns rows affected, which makes re-invocation safe.
	FinalizeEvent(ctx context.Context, eventID, actorID string, at time.Time) (int64, error)
	// Delete hard-removes the row while its status is one of from.
	Delete(ctx context.Context, id string, from ...models.RegistrationStatus) (int64, error)
	// HasActiveRegistration reports whether the member or visitor already
	// holds a registration for the event in a non-terminal status.
	HasActiveRegistration(ctx context.Context, eventID, memberID, visitorID string) (bool, error)
}

// GormRegistrationStore implements RegistrationStore on GORM/Postgres.
type GormRegistrationStore struct {
	db *gorm.DB
}

func NewGormRegistrationStore(db *gorm.DB) *GormRegistrationStore {
	return &GormRegistrationStore{db: db}
}

func (s *GormRegistrationStore) Get(ctx context.Context, id string) (*models.EventRegistration, error) {
	var reg models.EventRegistration
	err := s.db.WithContext(ctx).
		Where("id = ? AND is_deleted = ?", id, false).
		First(&reg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: registration %s", apperrors.ErrNotFound, id)
		}
		return nil, err
	}
	return &reg, nil
}

func (s *GormRegistrationStore) Create(ctx context.Context, reg *models.EventRegistration) error {
	return s.db.WithContext(ctx).Create(reg).Error
}

func (s *GormRegistrationStore) Update(ctx context.Context, id string, from models.RegistrationStatus, fields map[string]interface{}) (int64, error) {
	res := s.db.WithContext(ctx).
		Model(&models.EventRegistration{}).
		Where("id = ? AND status = ? AND final_confirmed_at IS NULL", id, from).
		Updates(fields)
	return res.RowsAffected, res.Error
}

func (s *GormRegistrationStore) FinalizeEvent(ctx context.Context, eventID, actorID string, at time.Time) (int64, error) {
	res := s.db.WithContext(ctx).
		Model(&models.EventRegistration{}).
		Where("event_id = ? AND status IN ? AND final_confirmed_at IS NULL",
			eventID,
			[]models.RegistrationStatus{models.RegistrationStatusAttended, models.RegistrationStatusNoShow},
		).
		Updates(map[string]interface{}{
			"final_confirmed_at": at,
			"final_confirmed_by": actorID,
		})
	return res.RowsAffected, res.Error
}

func (s *GormRegistrationStore) Delete(ctx context.Context, id string, from ...models.RegistrationStatus) (int64, error) {
	res := s.db.WithContext(ctx).
		Where("id = ? AND status IN ?", id, from).
		Delete(&models.EventRegistration{})
	return res.RowsAffected, res.Error
}

// GormEventLookup answers event existence checks for the registration
// service.
type GormEventLookup struct {
	db *gorm.DB
}

func NewGormEventLookup(db *gorm.DB) *GormEventLookup {
	return &GormEventLookup{db: db}
}

func (s *GormEventLookup) EventExists(ctx context.Context, eventID string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.Event{}).
		Where("id = ? AND is_deleted = ?", eventID, false).
		Count(&count).Error
	return count > 0, err
}

func (s *GormRegistrationStore) HasActiveRegistration(ctx context.Context, eventID, memberID, visitorID string) (bool, error) {
	query := s.db.WithContext(ctx).
		Model(&models.EventRegistration{}).
		Where("event_id = ? AND is_deleted = ?", eventID, false).
		Where("status NOT IN ?", []models.RegistrationStatus{models.RegistrationStatusCancelled})
	if memberID != "" {
		query = query.Where("member_id = ?", memberID)
	} else {
		query = query.Where("visitor_id = ?", visitorID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
