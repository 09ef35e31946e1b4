package authz

import (
	"context"
	"errors"
	"testing"
)

type fakeStore struct {
	assignments map[string]Assignments
	byField     map[string][]string
	byDistrict  map[string][]string
	err         error
}

func (s *fakeStore) UserAssignments(_ context.Context, userID string) (Assignments, error) {
	if s.err != nil {
		return Assignments{}, s.err
	}
	return s.assignments[userID], nil
}

func (s *fakeStore) ChurchIDsByField(_ context.Context, fieldID string) ([]string, error) {
	return s.byField[fieldID], nil
}

func (s *fakeStore) ChurchIDsByDistrict(_ context.Context, districtID string) ([]string, error) {
	return s.byDistrict[districtID], nil
}

type fakeCache struct {
	entries map[string]Scope
	sets    int
	hits    int
}

func cacheKey(userID string, role Role) string { return userID + ":" + string(role) }

func (c *fakeCache) Get(_ context.Context, userID string, role Role) (Scope, bool, error) {
	scope, ok := c.entries[cacheKey(userID, role)]
	if ok {
		c.hits++
	}
	return scope, ok, nil
}

func (c *fakeCache) Set(_ context.Context, userID string, role Role, scope Scope) error {
	if c.entries == nil {
		c.entries = make(map[string]Scope)
	}
	c.entries[cacheKey(userID, role)] = scope
	c.sets++
	return nil
}

func (c *fakeCache) Invalidate(_ context.Context, userID string) error {
	for k := range c.entries {
		if len(k) > len(userID) && k[:len(userID)] == userID {
			delete(c.entries, k)
		}
	}
	return nil
}

func TestResolveScope(t *testing.T) {
	store := &fakeStore{
		assignments: map[string]Assignments{
			"fs":          {FieldID: "field-1"},
			"fs-unset":    {},
			"pastor":      {DistrictID: "district-1"},
			"cs-multi":    {ChurchID: "ch-home", AssignedChurchIDs: []string{"ch-1", "ch-2"}},
			"cs-single":   {ChurchID: "ch-home"},
			"cs-unset":    {},
			"coordinator": {ChurchID: "ch-home"},
		},
		byField:    map[string][]string{"field-1": {"ch-1", "ch-2", "ch-3"}},
		byDistrict: map[string][]string{"district-1": {"ch-2", "ch-3"}},
	}
	resolver := NewResolver(store, nil)
	ctx := context.Background()

	tests := []struct {
		name         string
		userID       string
		role         Role
		unrestricted bool
		churchIDs    []string
	}{
		{"superadmin is unrestricted", "anyone", RoleSuperAdmin, true, nil},
		{"field secretary gets field churches", "fs", RoleFieldSecretary, false, []string{"ch-1", "ch-2", "ch-3"}},
		{"field secretary without field gets nothing", "fs-unset", RoleFieldSecretary, false, nil},
		{"pastor gets district churches", "pastor", RolePastor, false, []string{"ch-2", "ch-3"}},
		{"assigned churches win over home church", "cs-multi", RoleChurchSecretary, false, []string{"ch-1", "ch-2"}},
		{"home church is the fallback", "cs-single", RoleChurchSecretary, false, []string{"ch-home"}},
		{"church secretary without church gets nothing", "cs-unset", RoleChurchSecretary, false, nil},
		{"events-only role gets no churches", "coordinator", RoleCoordinator, false, nil},
		{"unknown role gets nothing", "cs-single", Role("intern"), false, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scope, err := resolver.ResolveScope(ctx, tt.userID, tt.role)
			if err != nil {
				t.Fatalf("ResolveScope() error = %v", err)
			}
			if scope.Unrestricted != tt.unrestricted {
				t.Errorf("Unrestricted = %v, want %v", scope.Unrestricted, tt.unrestricted)
			}
			if len(scope.ChurchIDs) != len(tt.churchIDs) {
				t.Fatalf("ChurchIDs = %v, want %v", scope.ChurchIDs, tt.churchIDs)
			}
			for i := range tt.churchIDs {
				if scope.ChurchIDs[i] != tt.churchIDs[i] {
					t.Errorf("ChurchIDs[%d] = %s, want %s", i, scope.ChurchIDs[i], tt.churchIDs[i])
				}
			}
		})
	}
}

func TestResolveScopeStoreError(t *testing.T) {
	storeErr := errors.New("connection refused")
	resolver := NewResolver(&fakeStore{err: storeErr}, nil)

	_, err := resolver.ResolveScope(context.Background(), "fs", RoleFieldSecretary)
	if !errors.Is(err, storeErr) {
		t.Errorf("ResolveScope() error = %v, want wrapped %v", err, storeErr)
	}
}

func TestResolveScopeUsesCache(t *testing.T) {
	store := &fakeStore{
		assignments: map[string]Assignments{"cs": {ChurchID: "ch-home"}},
	}
	cache := &fakeCache{}
	resolver := NewResolver(store, cache)
	ctx := context.Background()

	if _, err := resolver.ResolveScope(ctx, "cs", RoleChurchSecretary); err != nil {
		t.Fatalf("first resolve: %v", err)
	}
	if cache.sets != 1 {
		t.Errorf("cache sets = %d, want 1", cache.sets)
	}

	if _, err := resolver.ResolveScope(ctx, "cs", RoleChurchSecretary); err != nil {
		t.Fatalf("second resolve: %v", err)
	}
	if cache.hits != 1 {
		t.Errorf("cache hits = %d, want 1", cache.hits)
	}

	// National and events-only scopes never touch the cache
	if _, err := resolver.ResolveScope(ctx, "cs", RoleSuperAdmin); err != nil {
		t.Fatalf("superadmin resolve: %v", err)
	}
	if _, err := resolver.ResolveScope(ctx, "cs", RoleCoordinator); err != nil {
		t.Fatalf("coordinator resolve: %v", err)
	}
	if cache.sets != 1 {
		t.Errorf("cache sets after shortcut scopes = %d, want 1", cache.sets)
	}
}

func TestInvalidateUser(t *testing.T) {
	store := &fakeStore{
		assignments: map[string]Assignments{"cs": {ChurchID: "ch-home"}},
	}
	cache := &fakeCache{}
	resolver := NewResolver(store, cache)
	ctx := context.Background()

	if _, err := resolver.ResolveScope(ctx, "cs", RoleChurchSecretary); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if err := resolver.InvalidateUser(ctx, "cs"); err != nil {
		t.Fatalf("invalidate: %v", err)
	}

	store.assignments["cs"] = Assignments{ChurchID: "ch-new"}
	scope, err := resolver.ResolveScope(ctx, "cs", RoleChurchSecretary)
	if err != nil {
		t.Fatalf("resolve after invalidate: %v", err)
	}
	if len(scope.ChurchIDs) != 1 || scope.ChurchIDs[0] != "ch-new" {
		t.Errorf("scope after invalidate = %v, want [ch-new]", scope.ChurchIDs)
	}
}

func TestCanAccessChurch(t *testing.T) {
	store := &fakeStore{
		assignments: map[string]Assignments{"cs": {ChurchID: "ch-home"}},
	}
	resolver := NewResolver(store, nil)
	ctx := context.Background()

	ok, err := resolver.CanAccessChurch(ctx, "cs", RoleChurchSecretary, "ch-home")
	if err != nil || !ok {
		t.Errorf("CanAccessChurch(own church) = %v, %v; want true, nil", ok, err)
	}

	ok, err = resolver.CanAccessChurch(ctx, "cs", RoleChurchSecretary, "ch-other")
	if err != nil || ok {
		t.Errorf("CanAccessChurch(other church) = %v, %v; want false, nil", ok, err)
	}

	ok, err = resolver.CanAccessChurch(ctx, "cs", RoleSuperAdmin, "ch-other")
	if err != nil || !ok {
		t.Errorf("CanAccessChurch(superadmin) = %v, %v; want true, nil", ok, err)
	}

	if _, err := resolver.CanAccessChurch(ctx, "cs", RoleChurchSecretary, ""); err == nil {
		t.Error("CanAccessChurch with empty church id should fail")
	}
}

func TestScopeContains(t *testing.T) {
	scoped := Scope{ChurchIDs: []string{"ch-1", "ch-2"}}
	if !scoped.Contains("ch-1") || scoped.Contains("ch-3") {
		t.Error("restricted scope membership is wrong")
	}
	if scoped.Empty() {
		t.Error("scope with churches should not be empty")
	}

	unrestricted := Scope{Unrestricted: true}
	if !unrestricted.Contains("anything") || unrestricted.Empty() {
		t.Error("unrestricted scope should admit everything")
	}

	var empty Scope
	if empty.Contains("ch-1") || !empty.Empty() {
		t.Error("zero scope should admit nothing")
	}
}
