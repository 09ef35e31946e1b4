package authz

// Role is the closed set of roles a deployment knows about. The set is fixed
// per deployment; unknown values fail closed everywhere.
type Role string

const (
	RoleSuperAdmin      Role = "superadmin"
	RoleFieldSecretary  Role = "field_secretary"
	RolePastor          Role = "pastor"
	RoleChurchSecretary Role = "church_secretary"
	RoleCoordinator     Role = "coordinator"
	RoleBibleworker     Role = "bibleworker"
)

// roleLevels orders roles into a total hierarchy. The level is used only for
// comparison between roles, never for scope computation.
var roleLevels = map[Role]int{
	RoleBibleworker:     1,
	RoleChurchSecretary: 2,
	RoleCoordinator:     3,
	RolePastor:          4,
	RoleFieldSecretary:  5,
	RoleSuperAdmin:      6,
}

// Level returns the role's position in the hierarchy, 0 for unknown roles.
func (r Role) Level() int {
	return roleLevels[r]
}

// AtLeast reports whether r sits at or above other in the hierarchy.
func (r Role) AtLeast(other Role) bool {
	return r.Level() >= other.Level()
}

// IsValidRole checks if a given role is valid
func IsValidRole(role Role) bool {
	_, ok := roleLevels[role]
	return ok
}

// Module is a named functional area of the application, gated independently
// of data scope.
type Module string

const (
	ModuleDashboard  Module = "dashboard"
	ModuleChurches   Module = "churches"
	ModuleMembers    Module = "members"
	ModuleVisitors   Module = "visitors"
	ModuleEvents     Module = "events"
	ModuleAttendance Module = "attendance"
	ModuleTransfers  Module = "transfers"
	ModuleReports    Module = "reports"
	ModuleUsers      Module = "users"
)

// moduleOrder fixes the order used when picking a default landing module.
var moduleOrder = []Module{
	ModuleDashboard,
	ModuleChurches,
	ModuleMembers,
	ModuleVisitors,
	ModuleEvents,
	ModuleAttendance,
	ModuleTransfers,
	ModuleReports,
	ModuleUsers,
}

// DataScope selects the scope-resolution strategy for a role.
type DataScope string

const (
	ScopeNational   DataScope = "national"
	ScopeField      DataScope = "field"
	ScopeDistrict   DataScope = "district"
	ScopeChurch     DataScope = "church"
	ScopeEventsOnly DataScope = "events_only"
)

// PermissionLevel is the value of a per-module special permission override.
type PermissionLevel string

const (
	PermissionRead  PermissionLevel = "read"
	PermissionWrite PermissionLevel = "write"
)
