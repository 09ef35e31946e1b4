package services

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"shepherd/internal/apperrors"
	"shepherd/internal/authz"
	"shepherd/internal/models"

	console "shepherd/internal/utils/logger"

	"gorm.io/gorm"
)

// TransferStore is the slice of the relational store behind membership
// transfers.
type TransferStore interface {
	Get(ctx context.Context, id string) (*models.TransferRequest, error)
	Create(ctx context.Context, transfer *models.TransferRequest) error
	// UpdateStatus moves the request from one status to another atomically,
	// applying the extra fields. Returns rows affected.
	UpdateStatus(ctx context.Context, id string, from, to models.TransferStatus, fields map[string]interface{}) (int64, error)
	// MemberChurch returns the member's current church id.
	MemberChurch(ctx context.Context, memberID string) (string, error)
	// MoveMember reassigns the member to the church.
	MoveMember(ctx context.Context, memberID, churchID string) error
}

// TransferService creates and decides membership transfer requests.
type TransferService struct {
	store  TransferStore
	logger *console.Logger
}

func NewTransferService(store TransferStore) *TransferService {
	return &TransferService{
		store:  store,
		logger: console.New("transfer_service"),
	}
}

// Create opens a pending transfer request for one member.
func (s *TransferService) Create(ctx context.Context, memberID, toChurchID, reason string, actor Actor) (*models.TransferRequest, error) {
	if actor.ID == "" {
		return nil, apperrors.ErrUnauthorized
	}
	if !authz.CanWrite(actor.Role, authz.ModuleTransfers) {
		return nil, fmt.Errorf("%w: role %s may not create transfers", apperrors.ErrForbidden, actor.Role)
	}
	if memberID == "" || toChurchID == "" {
		return nil, fmt.Errorf("%w: member id and destination church are required", apperrors.ErrValidation)
	}

	fromChurchID, err := s.store.MemberChurch(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if fromChurchID == toChurchID {
		return nil, fmt.Errorf("%w: member already belongs to church %s", apperrors.ErrValidation, toChurchID)
	}

	transfer := &models.TransferRequest{
		MemberID:      memberID,
		FromChurchID:  fromChurchID,
		ToChurchID:    toChurchID,
		Status:        models.TransferStatusPending,
		Reason:        reason,
		RequestedByID: actor.ID,
	}
	if err := s.store.Create(ctx, transfer); err != nil {
		return nil, err
	}
	return transfer, nil
}

// CreateBulk opens one transfer request per member, isolating per-item
// failures and reporting aggregate success/error counts.
func (s *TransferService) CreateBulk(ctx context.Context, memberIDs []string, toChurchID, reason string, actor Actor) (BulkResult[*models.TransferRequest], error) {
	if actor.ID == "" {
		return BulkResult[*models.TransferRequest]{}, apperrors.ErrUnauthorized
	}
	if !authz.CanWrite(actor.Role, authz.ModuleTransfers) {
		return BulkResult[*models.TransferRequest]{}, fmt.Errorf("%w: role %s may not create transfers", apperrors.ErrForbidden, actor.Role)
	}

	result := RunBulk(ctx, memberIDs,
		func(id string) string { return id },
		func(ctx context.Context, memberID string) (*models.TransferRequest, error) {
			return s.Create(ctx, memberID, toChurchID, reason, actor)
		})

	s.logger.Info("bulk transfer to church %s: %d ok, %d failed", toChurchID, result.SuccessCount, result.FailureCount)
	return result, nil
}

// Approve moves a pending request to approved and reassigns the member.
func (s *TransferService) Approve(ctx context.Context, transferID string, actor Actor) (*models.TransferRequest, error) {
	if actor.ID == "" {
		return nil, apperrors.ErrUnauthorized
	}
	if !authz.CanWrite(actor.Role, authz.ModuleTransfers) {
		return nil, fmt.Errorf("%w: role %s may not decide transfers", apperrors.ErrForbidden, actor.Role)
	}

	transfer, err := s.store.Get(ctx, transferID)
	if err != nil {
		return nil, err
	}
	if transfer.Status != models.TransferStatusPending {
		return nil, fmt.Errorf("%w: transfer is already %s", apperrors.ErrInvalidTransition, transfer.Status)
	}

	now := time.Now().UTC()
	affected, err := s.store.UpdateStatus(ctx, transferID,
		models.TransferStatusPending, models.TransferStatusApproved,
		map[string]interface{}{
			"decided_by_id": actor.ID,
			"decided_at":    now,
		})
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, fmt.Errorf("%w: transfer %s changed concurrently", apperrors.ErrInvalidTransition, transferID)
	}

	if err := s.store.MoveMember(ctx, transfer.MemberID, transfer.ToChurchID); err != nil {
		return nil, err
	}

	return s.store.Get(ctx, transferID)
}

// Reject declines a pending request. The rejection reason is mandatory and
// must be at least models.MinTransferReasonLen characters; a shorter reason
// is a validation error and the request stays pending.
func (s *TransferService) Reject(ctx context.Context, transferID, reason string, actor Actor) (*models.TransferRequest, error) {
	if actor.ID == "" {
		return nil, apperrors.ErrUnauthorized
	}
	if !authz.CanWrite(actor.Role, authz.ModuleTransfers) {
		return nil, fmt.Errorf("%w: role %s may not decide transfers", apperrors.ErrForbidden, actor.Role)
	}
	// Runes, not bytes, to match the request validator's min= count.
	if utf8.RuneCountInString(reason) < models.MinTransferReasonLen {
		return nil, fmt.Errorf("%w: rejection reason must be at least %d characters", apperrors.ErrValidation, models.MinTransferReasonLen)
	}

	transfer, err := s.store.Get(ctx, transferID)
	if err != nil {
		return nil, err
	}
	if transfer.Status != models.TransferStatusPending {
		return nil, fmt.Errorf("%w: transfer is already %s", apperrors.ErrInvalidTransition, transfer.Status)
	}

	now := time.Now().UTC()
	affected, err := s.store.UpdateStatus(ctx, transferID,
		models.TransferStatusPending, models.TransferStatusRejected,
		map[string]interface{}{
			"reason":        reason,
			"decided_by_id": actor.ID,
			"decided_at":    now,
		})
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, fmt.Errorf("%w: transfer %s changed concurrently", apperrors.ErrInvalidTransition, transferID)
	}

	return s.store.Get(ctx, transferID)
}

// GormTransferStore implements TransferStore on GORM/Postgres.
type GormTransferStore struct {
	db *gorm.DB
}

func NewGormTransferStore(db *gorm.DB) *GormTransferStore {
	return &GormTransferStore{db: db}
}

func (s *GormTransferStore) Get(ctx context.Context, id string) (*models.TransferRequest, error) {
	var transfer models.TransferRequest
	err := s.db.WithContext(ctx).
		Where("id = ? AND is_deleted = ?", id, false).
		First(&transfer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: transfer %s", apperrors.ErrNotFound, id)
		}
		return nil, err
	}
	return &transfer, nil
}

func (s *GormTransferStore) Create(ctx context.Context, transfer *models.TransferRequest) error {
	return s.db.WithContext(ctx).Create(transfer).Error
}

func (s *GormTransferStore) UpdateStatus(ctx context.Context, id string, from, to models.TransferStatus, fields map[string]interface{}) (int64, error) {
	updates := map[string]interface{}{"status": to}
	for k, v := range fields {
		updates[k] = v
	}
	res := s.db.WithContext(ctx).
		Model(&models.TransferRequest{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	return res.RowsAffected, res.Error
}

func (s *GormTransferStore) MemberChurch(ctx context.Context, memberID string) (string, error) {
	var member models.Member
	err := s.db.WithContext(ctx).
		Select("id", "church_id").
		Where("id = ? AND is_deleted = ?", memberID, false).
		First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("%w: member %s", apperrors.ErrNotFound, memberID)
		}
		return "", err
	}
	return member.ChurchID, nil
}

func (s *GormTransferStore) MoveMember(ctx context.Context, memberID, churchID string) error {
	return s.db.WithContext(ctx).
		Model(&models.Member{}).
		Where("id = ?", memberID).
		Update("church_id", churchID).Error
}
