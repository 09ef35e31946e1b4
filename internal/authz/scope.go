package authz

import (
	"context"
	"fmt"

	"shepherd/internal/apperrors"

	console "shepherd/internal/utils/logger"
)

var log = console.New("AUTHZ")

// Scope is the set of churches a user may see. Unrestricted means the caller
// applies no church filter at all.
type Scope struct {
	Unrestricted bool     `json:"unrestricted"`
	ChurchIDs    []string `json:"churchIds"`
}

// Contains reports whether the scope admits the church.
func (s Scope) Contains(churchID string) bool {
	if s.Unrestricted {
		return true
	}
	for _, id := range s.ChurchIDs {
		if id == churchID {
			return true
		}
	}
	return false
}

// Empty reports whether the scope admits nothing.
func (s Scope) Empty() bool {
	return !s.Unrestricted && len(s.ChurchIDs) == 0
}

// ScopeCache can memoize resolved scopes between requests. Implementations
// must treat a miss as (zero, false, nil).
type ScopeCache interface {
	Get(ctx context.Context, userID string, role Role) (Scope, bool, error)
	Set(ctx context.Context, userID string, role Role, scope Scope) error
	Invalidate(ctx context.Context, userID string) error
}

// Resolver computes church scopes from the permission table and a user's
// stored assignments.
type Resolver struct {
	store Store
	cache ScopeCache // optional
}

func NewResolver(store Store, cache ScopeCache) *Resolver {
	return &Resolver{store: store, cache: cache}
}

// ResolveScope computes the set of churches the user may see. The policy is
// fail-closed: a missing required assignment yields an empty set, never
// an unrestricted one.
func (r *Resolver) ResolveScope(ctx context.Context, userID string, role Role) (Scope, error) {
	cfg := Lookup(role)

	// National scope needs no assignments and no store round trip.
	if cfg.DataScope == ScopeNational {
		return Scope{Unrestricted: true}, nil
	}

	// Events-only roles never see church-scoped data; event visibility is
	// gated by module access alone.
	if cfg.DataScope == ScopeEventsOnly {
		return Scope{}, nil
	}

	if r.cache != nil {
		if scope, ok, err := r.cache.Get(ctx, userID, role); err != nil {
			log.Warn("scope cache read failed for user %s: %v", userID, err)
		} else if ok {
			return scope, nil
		}
	}

	assignments, err := r.store.UserAssignments(ctx, userID)
	if err != nil {
		return Scope{}, fmt.Errorf("resolve scope for user %s: %w", userID, err)
	}

	var scope Scope
	switch cfg.DataScope {
	case ScopeField:
		if assignments.FieldID == "" {
			break
		}
		ids, err := r.store.ChurchIDsByField(ctx, assignments.FieldID)
		if err != nil {
			return Scope{}, fmt.Errorf("churches of field %s: %w", assignments.FieldID, err)
		}
		scope.ChurchIDs = ids
	case ScopeDistrict:
		if assignments.DistrictID == "" {
			break
		}
		ids, err := r.store.ChurchIDsByDistrict(ctx, assignments.DistrictID)
		if err != nil {
			return Scope{}, fmt.Errorf("churches of district %s: %w", assignments.DistrictID, err)
		}
		scope.ChurchIDs = ids
	case ScopeChurch:
		if len(assignments.AssignedChurchIDs) > 0 {
			scope.ChurchIDs = assignments.AssignedChurchIDs
		} else if assignments.ChurchID != "" {
			scope.ChurchIDs = []string{assignments.ChurchID}
		}
	}

	if r.cache != nil {
		if err := r.cache.Set(ctx, userID, role, scope); err != nil {
			log.Warn("scope cache write failed for user %s: %v", userID, err)
		}
	}

	return scope, nil
}

// CanAccessChurch reports whether the user's resolved scope admits the
// church.
func (r *Resolver) CanAccessChurch(ctx context.Context, userID string, role Role, churchID string) (bool, error) {
	if churchID == "" {
		return false, fmt.Errorf("%w: church id is required", apperrors.ErrValidation)
	}
	scope, err := r.ResolveScope(ctx, userID, role)
	if err != nil {
		return false, err
	}
	return scope.Contains(churchID), nil
}

// InvalidateUser drops any cached scope for the user. Called after the
// user's assignments change.
func (r *Resolver) InvalidateUser(ctx context.Context, userID string) error {
	if r.cache == nil {
		return nil
	}
	return r.cache.Invalidate(ctx, userID)
}
