package authz

import "testing"

func TestCanAccessModule(t *testing.T) {
	tests := []struct {
		name   string
		role   Role
		module Module
		want   bool
	}{
		{"superadmin sees everything", RoleSuperAdmin, ModuleUsers, true},
		{"field secretary sees users", RoleFieldSecretary, ModuleUsers, true},
		{"pastor does not see churches", RolePastor, ModuleChurches, false},
		{"pastor sees transfers", RolePastor, ModuleTransfers, true},
		{"church secretary does not see reports", RoleChurchSecretary, ModuleReports, false},
		{"coordinator sees events", RoleCoordinator, ModuleEvents, true},
		{"coordinator does not see members", RoleCoordinator, ModuleMembers, false},
		{"bibleworker sees visitors", RoleBibleworker, ModuleVisitors, true},
		{"bibleworker does not see attendance", RoleBibleworker, ModuleAttendance, false},
		{"unknown role sees nothing", Role("intern"), ModuleDashboard, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanAccessModule(tt.role, tt.module); got != tt.want {
				t.Errorf("CanAccessModule(%s, %s) = %v, want %v", tt.role, tt.module, got, tt.want)
			}
		})
	}
}

func TestCanWrite(t *testing.T) {
	tests := []struct {
		name   string
		role   Role
		module Module
		want   bool
	}{
		{"superadmin writes everywhere", RoleSuperAdmin, ModuleChurches, true},
		{"pastor writes members", RolePastor, ModuleMembers, true},
		{"pastor cannot write churches he cannot see", RolePastor, ModuleChurches, false},
		// The per-module override beats the read-only general flag.
		{"bibleworker writes visitors", RoleBibleworker, ModuleVisitors, true},
		{"bibleworker cannot write members", RoleBibleworker, ModuleMembers, false},
		{"bibleworker cannot write events", RoleBibleworker, ModuleEvents, false},
		{"coordinator writes attendance", RoleCoordinator, ModuleAttendance, true},
		{"unknown role writes nothing", Role("intern"), ModuleVisitors, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanWrite(tt.role, tt.module); got != tt.want {
				t.Errorf("CanWrite(%s, %s) = %v, want %v", tt.role, tt.module, got, tt.want)
			}
		})
	}
}

func TestDefaultLandingModule(t *testing.T) {
	tests := []struct {
		role Role
		want Module
	}{
		{RoleSuperAdmin, ModuleDashboard},
		{RoleFieldSecretary, ModuleDashboard},
		{RoleCoordinator, ModuleEvents},
		{RoleBibleworker, ModuleMembers},
		{Role("intern"), ModuleDashboard},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			if got := DefaultLandingModule(tt.role); got != tt.want {
				t.Errorf("DefaultLandingModule(%s) = %s, want %s", tt.role, got, tt.want)
			}
		})
	}
}

func TestAccessibleModulesOrder(t *testing.T) {
	got := AccessibleModules(RoleCoordinator)
	want := []Module{ModuleEvents, ModuleAttendance, ModuleReports}
	if len(got) != len(want) {
		t.Fatalf("AccessibleModules(coordinator) = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("AccessibleModules(coordinator)[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestLookupUnknownRoleFailsClosed(t *testing.T) {
	cfg := Lookup(Role("intern"))
	if cfg.AllModules || cfg.CanWrite || len(cfg.Modules) != 0 {
		t.Errorf("unknown role config should grant nothing, got %+v", cfg)
	}
	if cfg.DataScope != ScopeChurch {
		t.Errorf("unknown role scope = %s, want %s", cfg.DataScope, ScopeChurch)
	}
}
