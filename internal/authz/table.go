package authz

// RoleConfig describes what a role may see and do. SpecialPermissions
// overrides CanWrite for the named module only; absence falls back to
// CanWrite.
type RoleConfig struct {
	// Modules lists the accessible modules. AllModules grants everything.
	Modules []Module
	// AllModules short-circuits the module list.
	AllModules bool
	// CanWrite is the general write flag for every accessible module.
	CanWrite bool
	// DataScope selects how ResolveScope computes the church set.
	DataScope DataScope
	// SpecialPermissions maps module -> read|write, superseding CanWrite
	// for that module.
	SpecialPermissions map[Module]PermissionLevel
}

// permissionTable is the static registry mapping each role to its config.
// It is populated once at package init and never mutated afterwards, so it
// is safe for concurrent reads from any number of request handlers.
var permissionTable = map[Role]RoleConfig{
	RoleSuperAdmin: {
		AllModules: true,
		CanWrite:   true,
		DataScope:  ScopeNational,
	},
	RoleFieldSecretary: {
		Modules: []Module{
			ModuleDashboard, ModuleChurches, ModuleMembers, ModuleVisitors,
			ModuleEvents, ModuleAttendance, ModuleTransfers, ModuleReports,
			ModuleUsers,
		},
		CanWrite:  true,
		DataScope: ScopeField,
	},
	RolePastor: {
		Modules: []Module{
			ModuleDashboard, ModuleMembers, ModuleVisitors, ModuleEvents,
			ModuleAttendance, ModuleTransfers, ModuleReports,
		},
		CanWrite:  true,
		DataScope: ScopeDistrict,
	},
	RoleChurchSecretary: {
		Modules: []Module{
			ModuleDashboard, ModuleMembers, ModuleVisitors, ModuleEvents,
			ModuleAttendance, ModuleTransfers,
		},
		CanWrite:  true,
		DataScope: ScopeChurch,
	},
	RoleCoordinator: {
		Modules:   []Module{ModuleEvents, ModuleAttendance, ModuleReports},
		CanWrite:  true,
		DataScope: ScopeEventsOnly,
	},
	RoleBibleworker: {
		Modules:   []Module{ModuleMembers, ModuleVisitors, ModuleEvents},
		CanWrite:  false,
		DataScope: ScopeChurch,
		SpecialPermissions: map[Module]PermissionLevel{
			ModuleVisitors: PermissionWrite,
		},
	},
}

// Lookup returns the config for a role. Unknown roles get a zero config:
// no modules, no writes, church scope with no assignments — fail closed.
func Lookup(role Role) RoleConfig {
	if cfg, ok := permissionTable[role]; ok {
		return cfg
	}
	return RoleConfig{DataScope: ScopeChurch}
}
