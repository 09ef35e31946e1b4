package services

import (
	"context"
	"fmt"

	"shepherd/internal/apperrors"
	"shepherd/internal/authz"
	"shepherd/internal/models"

	console "shepherd/internal/utils/logger"
)

// RegistrationCandidate names one member or one visitor to register.
type RegistrationCandidate struct {
	MemberID  string `json:"memberId,omitempty" validate:"omitempty,uuid"`
	VisitorID string `json:"visitorId,omitempty" validate:"omitempty,uuid"`
	Notes     string `json:"notes,omitempty"`
}

func (c RegistrationCandidate) id() string {
	if c.MemberID != "" {
		return c.MemberID
	}
	return c.VisitorID
}

// BulkRegistrationResult reports the outcome of a bulk registration: rows
// created, candidates skipped because they already hold a registration in a
// non-terminal status, and per-item failures.
type BulkRegistrationResult struct {
	Registered    int                        `json:"registered"`
	Skipped       int                        `json:"skipped"`
	Failed        []BulkFailure              `json:"failed"`
	Registrations []*models.EventRegistration `json:"registrations"`
}

// EventLookup answers existence questions about events.
type EventLookup interface {
	EventExists(ctx context.Context, eventID string) (bool, error)
}

// RegistrationService creates event registrations, singly and in bulk.
type RegistrationService struct {
	store  RegistrationStore
	events EventLookup
	logger *console.Logger
}

func NewRegistrationService(store RegistrationStore, events EventLookup) *RegistrationService {
	return &RegistrationService{
		store:  store,
		events: events,
		logger: console.New("registration_service"),
	}
}

// Register creates a single registration in status registered.
func (s *RegistrationService) Register(ctx context.Context, eventID string, candidate RegistrationCandidate, actor Actor) (*models.EventRegistration, error) {
	if actor.ID == "" {
		return nil, apperrors.ErrUnauthorized
	}
	if !authz.CanWrite(actor.Role, authz.ModuleEvents) {
		return nil, fmt.Errorf("%w: role %s may not register attendees", apperrors.ErrForbidden, actor.Role)
	}
	if (candidate.MemberID == "") == (candidate.VisitorID == "") {
		return nil, fmt.Errorf("%w: exactly one of memberId or visitorId is required", apperrors.ErrValidation)
	}

	exists, err := s.events.EventExists(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: event %s", apperrors.ErrNotFound, eventID)
	}

	reg := &models.EventRegistration{
		EventID:        eventID,
		MemberID:       candidate.MemberID,
		VisitorID:      candidate.VisitorID,
		Status:         models.RegistrationStatusRegistered,
		RegisteredByID: actor.ID,
		Notes:          candidate.Notes,
	}
	if err := s.store.Create(ctx, reg); err != nil {
		return nil, err
	}
	return reg, nil
}

// BulkRegister registers every candidate for the event in one sequential
// pass. Candidates already registered in a non-terminal status are skipped,
// not failed; genuine errors are isolated per item.
func (s *RegistrationService) BulkRegister(ctx context.Context, eventID string, candidates []RegistrationCandidate, actor Actor) (BulkRegistrationResult, error) {
	if actor.ID == "" {
		return BulkRegistrationResult{}, apperrors.ErrUnauthorized
	}
	if !authz.CanWrite(actor.Role, authz.ModuleEvents) {
		return BulkRegistrationResult{}, fmt.Errorf("%w: role %s may not register attendees", apperrors.ErrForbidden, actor.Role)
	}

	exists, err := s.events.EventExists(ctx, eventID)
	if err != nil {
		return BulkRegistrationResult{}, err
	}
	if !exists {
		return BulkRegistrationResult{}, fmt.Errorf("%w: event %s", apperrors.ErrNotFound, eventID)
	}

	result := BulkRegistrationResult{Failed: []BulkFailure{}}

	for i, candidate := range candidates {
		if (candidate.MemberID == "") == (candidate.VisitorID == "") {
			result.Failed = append(result.Failed, BulkFailure{
				Index: i,
				ID:    candidate.id(),
				Error: "exactly one of memberId or visitorId is required",
			})
			continue
		}

		active, err := s.store.HasActiveRegistration(ctx, eventID, candidate.MemberID, candidate.VisitorID)
		if err != nil {
			result.Failed = append(result.Failed, BulkFailure{Index: i, ID: candidate.id(), Error: err.Error()})
			continue
		}
		if active {
			result.Skipped++
			continue
		}

		reg := &models.EventRegistration{
			EventID:        eventID,
			MemberID:       candidate.MemberID,
			VisitorID:      candidate.VisitorID,
			Status:         models.RegistrationStatusRegistered,
			RegisteredByID: actor.ID,
			Notes:          candidate.Notes,
		}
		if err := s.store.Create(ctx, reg); err != nil {
			result.Failed = append(result.Failed, BulkFailure{Index: i, ID: candidate.id(), Error: err.Error()})
			continue
		}
		result.Registered++
		result.Registrations = append(result.Registrations, reg)
	}

	s.logger.Info("bulk registration for event %s: %d registered, %d skipped, %d failed",
		eventID, result.Registered, result.Skipped, len(result.Failed))
	return result, nil
}
