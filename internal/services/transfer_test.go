package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"shepherd/internal/apperrors"
	"shepherd/internal/authz"
	"shepherd/internal/models"
)

type fakeTransferStore struct {
	transfers    map[string]*models.TransferRequest
	memberChurch map[string]string
}

func newFakeTransferStore() *fakeTransferStore {
	return &fakeTransferStore{
		transfers:    make(map[string]*models.TransferRequest),
		memberChurch: make(map[string]string),
	}
}

func (s *fakeTransferStore) Get(_ context.Context, id string) (*models.TransferRequest, error) {
	transfer, ok := s.transfers[id]
	if !ok {
		return nil, fmt.Errorf("%w: transfer %s", apperrors.ErrNotFound, id)
	}
	copied := *transfer
	return &copied, nil
}

func (s *fakeTransferStore) Create(_ context.Context, transfer *models.TransferRequest) error {
	if transfer.ID == "" {
		transfer.ID = fmt.Sprintf("tr-%d", len(s.transfers)+1)
	}
	copied := *transfer
	s.transfers[transfer.ID] = &copied
	return nil
}

func (s *fakeTransferStore) UpdateStatus(_ context.Context, id string, from, to models.TransferStatus, fields map[string]interface{}) (int64, error) {
	transfer, ok := s.transfers[id]
	if !ok || transfer.Status != from {
		return 0, nil
	}
	transfer.Status = to
	if reason, ok := fields["reason"].(string); ok {
		transfer.Reason = reason
	}
	if decidedBy, ok := fields["decided_by_id"].(string); ok {
		transfer.DecidedByID = decidedBy
	}
	return 1, nil
}

func (s *fakeTransferStore) MemberChurch(_ context.Context, memberID string) (string, error) {
	churchID, ok := s.memberChurch[memberID]
	if !ok {
		return "", fmt.Errorf("%w: member %s", apperrors.ErrNotFound, memberID)
	}
	return churchID, nil
}

func (s *fakeTransferStore) MoveMember(_ context.Context, memberID, churchID string) error {
	s.memberChurch[memberID] = churchID
	return nil
}

var pastor = Actor{ID: "pastor-1", Role: authz.RolePastor}

func TestTransferCreate(t *testing.T) {
	store := newFakeTransferStore()
	store.memberChurch["member-1"] = "ch-old"
	svc := NewTransferService(store)

	transfer, err := svc.Create(context.Background(), "member-1", "ch-new", "moved house", pastor)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if transfer.Status != models.TransferStatusPending {
		t.Errorf("status = %s, want pending", transfer.Status)
	}
	if transfer.FromChurchID != "ch-old" || transfer.ToChurchID != "ch-new" {
		t.Errorf("churches = %s -> %s, want ch-old -> ch-new", transfer.FromChurchID, transfer.ToChurchID)
	}
	if transfer.RequestedByID != pastor.ID {
		t.Errorf("requestedBy = %s, want %s", transfer.RequestedByID, pastor.ID)
	}
}

func TestTransferCreateGuards(t *testing.T) {
	store := newFakeTransferStore()
	store.memberChurch["member-1"] = "ch-old"
	svc := NewTransferService(store)
	ctx := context.Background()

	if _, err := svc.Create(ctx, "member-1", "ch-new", "", Actor{}); !errors.Is(err, apperrors.ErrUnauthorized) {
		t.Errorf("anonymous error = %v, want ErrUnauthorized", err)
	}
	if _, err := svc.Create(ctx, "member-1", "ch-new", "", coordinator); !errors.Is(err, apperrors.ErrForbidden) {
		t.Errorf("coordinator error = %v, want ErrForbidden", err)
	}
	if _, err := svc.Create(ctx, "", "ch-new", "", pastor); !errors.Is(err, apperrors.ErrValidation) {
		t.Errorf("missing member error = %v, want ErrValidation", err)
	}
	if _, err := svc.Create(ctx, "member-1", "ch-old", "", pastor); !errors.Is(err, apperrors.ErrValidation) {
		t.Errorf("same church error = %v, want ErrValidation", err)
	}
	if _, err := svc.Create(ctx, "member-missing", "ch-new", "", pastor); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("unknown member error = %v, want ErrNotFound", err)
	}
}

func TestTransferCreateBulk(t *testing.T) {
	store := newFakeTransferStore()
	store.memberChurch["member-1"] = "ch-old"
	store.memberChurch["member-2"] = "ch-new"
	store.memberChurch["member-3"] = "ch-old"
	svc := NewTransferService(store)

	result, err := svc.CreateBulk(context.Background(),
		[]string{"member-1", "member-2", "member-3", "member-missing"},
		"ch-new", "church plant", pastor)
	if err != nil {
		t.Fatalf("CreateBulk() error = %v", err)
	}

	if result.SuccessCount != 2 {
		t.Errorf("SuccessCount = %d, want 2", result.SuccessCount)
	}
	if result.FailureCount != 2 {
		t.Errorf("FailureCount = %d, want 2", result.FailureCount)
	}
	if result.Failed[0].ID != "member-2" || result.Failed[1].ID != "member-missing" {
		t.Errorf("failed ids = %s, %s; want member-2, member-missing", result.Failed[0].ID, result.Failed[1].ID)
	}
}

func TestTransferApprove(t *testing.T) {
	store := newFakeTransferStore()
	store.memberChurch["member-1"] = "ch-old"
	svc := NewTransferService(store)
	ctx := context.Background()

	created, err := svc.Create(ctx, "member-1", "ch-new", "moved house", pastor)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	approved, err := svc.Approve(ctx, created.ID, pastor)
	if err != nil {
		t.Fatalf("Approve() error = %v", err)
	}
	if approved.Status != models.TransferStatusApproved {
		t.Errorf("status = %s, want approved", approved.Status)
	}
	if store.memberChurch["member-1"] != "ch-new" {
		t.Errorf("member church = %s, want ch-new", store.memberChurch["member-1"])
	}

	// Deciding twice is an invalid transition
	if _, err := svc.Approve(ctx, created.ID, pastor); !errors.Is(err, apperrors.ErrInvalidTransition) {
		t.Errorf("second Approve() error = %v, want ErrInvalidTransition", err)
	}
	if _, err := svc.Reject(ctx, created.ID, "changed our minds", pastor); !errors.Is(err, apperrors.ErrInvalidTransition) {
		t.Errorf("Reject() after approve error = %v, want ErrInvalidTransition", err)
	}
}

func TestTransferReject(t *testing.T) {
	store := newFakeTransferStore()
	store.memberChurch["member-1"] = "ch-old"
	svc := NewTransferService(store)
	ctx := context.Background()

	created, err := svc.Create(ctx, "member-1", "ch-new", "moved house", pastor)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	rejected, err := svc.Reject(ctx, created.ID, "destination has no capacity", pastor)
	if err != nil {
		t.Fatalf("Reject() error = %v", err)
	}
	if rejected.Status != models.TransferStatusRejected {
		t.Errorf("status = %s, want rejected", rejected.Status)
	}
	if rejected.Reason != "destination has no capacity" {
		t.Errorf("reason = %q, want the rejection reason", rejected.Reason)
	}
	if store.memberChurch["member-1"] != "ch-old" {
		t.Error("rejected transfer must not move the member")
	}
}

func TestTransferRejectReasonTooShort(t *testing.T) {
	store := newFakeTransferStore()
	store.memberChurch["member-1"] = "ch-old"
	svc := NewTransferService(store)
	ctx := context.Background()

	created, err := svc.Create(ctx, "member-1", "ch-new", "moved house", pastor)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	_, err = svc.Reject(ctx, created.ID, "no", pastor)
	if !errors.Is(err, apperrors.ErrValidation) {
		t.Fatalf("Reject() error = %v, want ErrValidation", err)
	}

	// 7 runes but 14 bytes, still too short
	_, err = svc.Reject(ctx, created.ID, "неверно", pastor)
	if !errors.Is(err, apperrors.ErrValidation) {
		t.Fatalf("Reject() multibyte error = %v, want ErrValidation", err)
	}

	// The request must still be pending and decidable
	current, err := svc.store.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if current.Status != models.TransferStatusPending {
		t.Errorf("status after rejected validation = %s, want pending", current.Status)
	}
}
