package services

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"shepherd/internal/apperrors"
	"shepherd/internal/authz"
	"shepherd/internal/events"
	"shepherd/internal/models"

	console "shepherd/internal/utils/logger"
)

// Actor identifies who is performing an operation.
type Actor struct {
	ID   string
	Role authz.Role
}

// MinCancelReasonLen is the minimum length of a cancellation reason when one
// is supplied.
const MinCancelReasonLen = 10

// AttendanceService drives an event registration through its lifecycle:
//
//	registered -> attended | no_show | cancelled
//	attended | no_show -> registered (revert) or locked via Finalize
//
// Locked rows (final_confirmed_at set) accept no further mutation from any
// operation here. cancelled is terminal.
type AttendanceService struct {
	store  RegistrationStore
	logger *console.Logger
}

func NewAttendanceService(store RegistrationStore) *AttendanceService {
	return &AttendanceService{
		store:  store,
		logger: console.New("attendance_service"),
	}
}

// confirmTargets are the statuses Confirm may move a registration to.
var confirmTargets = map[models.RegistrationStatus]bool{
	models.RegistrationStatusAttended:   true,
	models.RegistrationStatusNoShow:     true,
	models.RegistrationStatusRegistered: true,
}

// Confirm moves a registration to attended/no_show, or reverts it back to
// registered. Attempting any transition on a locked record fails with
// ErrInvalidTransition and leaves the row untouched.
func (s *AttendanceService) Confirm(ctx context.Context, registrationID string, target models.RegistrationStatus, actor Actor) (*models.EventRegistration, error) {
	if actor.ID == "" {
		return nil, apperrors.ErrUnauthorized
	}
	if !authz.CanWrite(actor.Role, authz.ModuleAttendance) {
		return nil, fmt.Errorf("%w: role %s may not confirm attendance", apperrors.ErrForbidden, actor.Role)
	}
	if !confirmTargets[target] {
		return nil, fmt.Errorf("%w: %s is not a confirmation status", apperrors.ErrValidation, target)
	}

	reg, err := s.store.Get(ctx, registrationID)
	if err != nil {
		return nil, err
	}
	if reg.Locked() {
		return nil, fmt.Errorf("%w: registration %s is finalized", apperrors.ErrInvalidTransition, registrationID)
	}
	if !validConfirmTransition(reg.Status, target) {
		return nil, fmt.Errorf("%w: %s -> %s", apperrors.ErrInvalidTransition, reg.Status, target)
	}

	now := time.Now().UTC()
	fields := map[string]interface{}{"status": target}
	if target == models.RegistrationStatusRegistered {
		// Revert clears the confirmation pair.
		fields["attendance_confirmed_at"] = nil
		fields["attendance_confirmed_by"] = nil
	} else {
		fields["attendance_confirmed_at"] = now
		fields["attendance_confirmed_by"] = actor.ID
	}

	affected, err := s.store.Update(ctx, registrationID, reg.Status, fields)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		// The row moved (or was locked) between read and update.
		return nil, fmt.Errorf("%w: registration %s changed concurrently", apperrors.ErrInvalidTransition, registrationID)
	}

	return s.store.Get(ctx, registrationID)
}

// validConfirmTransition encodes the outgoing confirmation edges of the
// state machine. Corrections between attended and no_show go through a
// revert to registered first.
func validConfirmTransition(from, to models.RegistrationStatus) bool {
	switch from {
	case models.RegistrationStatusRegistered:
		return to == models.RegistrationStatusAttended || to == models.RegistrationStatusNoShow
	case models.RegistrationStatusAttended, models.RegistrationStatusNoShow:
		return to == models.RegistrationStatusRegistered
	default:
		// cancelled is terminal.
		return false
	}
}

// ConfirmBulk applies the same confirmation to every id in one sequential
// pass. Locked or otherwise ineligible rows are rejected per item, never
// silently mutated, and never abort the batch.
func (s *AttendanceService) ConfirmBulk(ctx context.Context, registrationIDs []string, target models.RegistrationStatus, actor Actor) (BulkResult[*models.EventRegistration], error) {
	if actor.ID == "" {
		return BulkResult[*models.EventRegistration]{}, apperrors.ErrUnauthorized
	}
	if target != models.RegistrationStatusAttended && target != models.RegistrationStatusNoShow {
		return BulkResult[*models.EventRegistration]{}, fmt.Errorf("%w: bulk confirmation target must be attended or no_show", apperrors.ErrValidation)
	}

	result := RunBulk(ctx, registrationIDs,
		func(id string) string { return id },
		func(ctx context.Context, id string) (*models.EventRegistration, error) {
			return s.Confirm(ctx, id, target, actor)
		})

	s.logger.Info("bulk confirmation to %s: %d ok, %d failed", target, result.SuccessCount, result.FailureCount)
	return result, nil
}

// Finalize irreversibly locks every attended/no_show registration of the
// event, leaving statuses unchanged, and returns the number of rows
// stamped. Only superadmins and coordinators may finalize; the role check
// runs before any data is touched. The update is scoped to rows not already
// carrying a lock, so re-invocation (including concurrent re-invocation)
// stamps nothing twice and returns 0 the second time.
func (s *AttendanceService) Finalize(ctx context.Context, eventID string, actor Actor) (int64, error) {
	if actor.ID == "" {
		return 0, apperrors.ErrUnauthorized
	}
	if actor.Role != authz.RoleSuperAdmin && actor.Role != authz.RoleCoordinator {
		return 0, fmt.Errorf("%w: role %s may not finalize attendance", apperrors.ErrForbidden, actor.Role)
	}
	if eventID == "" {
		return 0, fmt.Errorf("%w: event id is required", apperrors.ErrValidation)
	}

	count, err := s.store.FinalizeEvent(ctx, eventID, actor.ID, time.Now().UTC())
	if err != nil {
		return 0, err
	}

	if count > 0 {
		events.Emit("attendance.finalized", map[string]interface{}{
			"eventId": eventID,
			"actorId": actor.ID,
			"count":   count,
		})
	}
	s.logger.Info("finalized %d registrations for event %s", count, eventID)
	return count, nil
}

// Cancel moves a registration from registered to cancelled, recording the
// reason in notes. A supplied reason shorter than MinCancelReasonLen is a
// validation error.
func (s *AttendanceService) Cancel(ctx context.Context, registrationID, reason string, actor Actor) (*models.EventRegistration, error) {
	if actor.ID == "" {
		return nil, apperrors.ErrUnauthorized
	}
	if !authz.CanWrite(actor.Role, authz.ModuleEvents) {
		return nil, fmt.Errorf("%w: role %s may not cancel registrations", apperrors.ErrForbidden, actor.Role)
	}
	// Runes, not bytes, to match the request validator's min= count.
	if reason != "" && utf8.RuneCountInString(reason) < MinCancelReasonLen {
		return nil, fmt.Errorf("%w: cancellation reason must be at least %d characters", apperrors.ErrValidation, MinCancelReasonLen)
	}

	reg, err := s.store.Get(ctx, registrationID)
	if err != nil {
		return nil, err
	}
	if reg.Locked() {
		return nil, fmt.Errorf("%w: registration %s is finalized", apperrors.ErrInvalidTransition, registrationID)
	}
	if reg.Status != models.RegistrationStatusRegistered {
		return nil, fmt.Errorf("%w: cannot cancel from %s", apperrors.ErrInvalidTransition, reg.Status)
	}

	fields := map[string]interface{}{"status": models.RegistrationStatusCancelled}
	if reason != "" {
		notes := reg.Notes
		if notes != "" {
			notes += "\n"
		}
		fields["notes"] = notes + "Cancelled: " + reason
	}

	affected, err := s.store.Update(ctx, registrationID, models.RegistrationStatusRegistered, fields)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, fmt.Errorf("%w: registration %s changed concurrently", apperrors.ErrInvalidTransition, registrationID)
	}

	return s.store.Get(ctx, registrationID)
}

// Delete hard-removes a registration. Permitted only while the status is
// registered or cancelled; confirmed rows are never physically deleted.
func (s *AttendanceService) Delete(ctx context.Context, registrationID string, actor Actor) error {
	if actor.ID == "" {
		return apperrors.ErrUnauthorized
	}
	if !authz.CanWrite(actor.Role, authz.ModuleEvents) {
		return fmt.Errorf("%w: role %s may not delete registrations", apperrors.ErrForbidden, actor.Role)
	}

	reg, err := s.store.Get(ctx, registrationID)
	if err != nil {
		return err
	}
	if reg.Status != models.RegistrationStatusRegistered && reg.Status != models.RegistrationStatusCancelled {
		return fmt.Errorf("%w: cannot delete a %s registration", apperrors.ErrInvalidTransition, reg.Status)
	}

	affected, err := s.store.Delete(ctx, registrationID,
		models.RegistrationStatusRegistered, models.RegistrationStatusCancelled)
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: registration %s changed concurrently", apperrors.ErrInvalidTransition, registrationID)
	}
	return nil
}
