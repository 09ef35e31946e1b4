package services

import (
	"context"
	"errors"
	"testing"

	"shepherd/internal/apperrors"
	"shepherd/internal/models"
)

type fakeEventLookup struct {
	events map[string]bool
}

func (l *fakeEventLookup) EventExists(_ context.Context, eventID string) (bool, error) {
	return l.events[eventID], nil
}

func newRegistrationService(store *fakeRegistrationStore, eventIDs ...string) *RegistrationService {
	events := make(map[string]bool)
	for _, id := range eventIDs {
		events[id] = true
	}
	return NewRegistrationService(store, &fakeEventLookup{events: events})
}

func TestRegister(t *testing.T) {
	store := newFakeRegistrationStore()
	svc := newRegistrationService(store, "ev-1")

	reg, err := svc.Register(context.Background(), "ev-1",
		RegistrationCandidate{MemberID: "member-1", Notes: "front row"}, secretary)
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if reg.Status != models.RegistrationStatusRegistered {
		t.Errorf("status = %s, want registered", reg.Status)
	}
	if reg.RegisteredByID != secretary.ID {
		t.Errorf("registeredBy = %s, want %s", reg.RegisteredByID, secretary.ID)
	}
	if reg.Notes != "front row" {
		t.Errorf("notes = %q, want front row", reg.Notes)
	}
}

func TestRegisterGuards(t *testing.T) {
	tests := []struct {
		name      string
		eventID   string
		candidate RegistrationCandidate
		actor     Actor
		wantErr   error
	}{
		{"anonymous actor", "ev-1", RegistrationCandidate{MemberID: "m1"}, Actor{}, apperrors.ErrUnauthorized},
		{"bibleworker cannot register", "ev-1", RegistrationCandidate{MemberID: "m1"}, bibleworker, apperrors.ErrForbidden},
		{"neither member nor visitor", "ev-1", RegistrationCandidate{}, secretary, apperrors.ErrValidation},
		{"both member and visitor", "ev-1", RegistrationCandidate{MemberID: "m1", VisitorID: "v1"}, secretary, apperrors.ErrValidation},
		{"unknown event", "ev-missing", RegistrationCandidate{MemberID: "m1"}, secretary, apperrors.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newRegistrationService(newFakeRegistrationStore(), "ev-1")

			_, err := svc.Register(context.Background(), tt.eventID, tt.candidate, tt.actor)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Register() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestBulkRegisterSkipsActiveRegistrants(t *testing.T) {
	// registration() derives the member id from the row id: r1 -> member-r1.
	store := newFakeRegistrationStore(
		registration("r1", "ev-1", models.RegistrationStatusRegistered),
		registration("r2", "ev-1", models.RegistrationStatusAttended),
		registration("r3", "ev-1", models.RegistrationStatusCancelled),
	)
	svc := newRegistrationService(store, "ev-1")

	candidates := []RegistrationCandidate{
		{MemberID: "member-r1"}, // active, skipped
		{MemberID: "member-r2"}, // active, skipped
		{MemberID: "member-r3"}, // cancelled, re-registers
		{MemberID: "member-new"},
		{VisitorID: "visitor-new"},
	}

	result, err := svc.BulkRegister(context.Background(), "ev-1", candidates, secretary)
	if err != nil {
		t.Fatalf("BulkRegister() error = %v", err)
	}

	if result.Registered != 3 {
		t.Errorf("Registered = %d, want 3", result.Registered)
	}
	if result.Skipped != 2 {
		t.Errorf("Skipped = %d, want 2", result.Skipped)
	}
	if len(result.Failed) != 0 {
		t.Errorf("Failed = %v, want none", result.Failed)
	}
	if len(result.Registrations) != 3 {
		t.Errorf("Registrations = %d rows, want 3", len(result.Registrations))
	}
}

func TestBulkRegisterIsolatesInvalidCandidates(t *testing.T) {
	store := newFakeRegistrationStore()
	svc := newRegistrationService(store, "ev-1")

	candidates := []RegistrationCandidate{
		{MemberID: "member-1"},
		{}, // invalid
		{MemberID: "member-2", VisitorID: "visitor-2"}, // invalid
		{VisitorID: "visitor-3"},
	}

	result, err := svc.BulkRegister(context.Background(), "ev-1", candidates, secretary)
	if err != nil {
		t.Fatalf("BulkRegister() error = %v", err)
	}

	if result.Registered != 2 {
		t.Errorf("Registered = %d, want 2", result.Registered)
	}
	if len(result.Failed) != 2 {
		t.Fatalf("Failed = %d, want 2", len(result.Failed))
	}
	if result.Failed[0].Index != 1 || result.Failed[1].Index != 2 {
		t.Errorf("failure indexes = %d, %d; want 1, 2", result.Failed[0].Index, result.Failed[1].Index)
	}
}

func TestBulkRegisterUnknownEvent(t *testing.T) {
	svc := newRegistrationService(newFakeRegistrationStore(), "ev-1")

	_, err := svc.BulkRegister(context.Background(), "ev-missing",
		[]RegistrationCandidate{{MemberID: "member-1"}}, secretary)
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("BulkRegister() error = %v, want ErrNotFound", err)
	}
}
