package authz

// CanAccessModule reports whether the role may see the module at all.
func CanAccessModule(role Role, module Module) bool {
	cfg := Lookup(role)
	if cfg.AllModules {
		return true
	}
	for _, m := range cfg.Modules {
		if m == module {
			return true
		}
	}
	return false
}

// CanWrite reports whether the role may mutate data in the module. A special
// permission entry for the module supersedes the general write flag.
func CanWrite(role Role, module Module) bool {
	cfg := Lookup(role)
	if level, ok := cfg.SpecialPermissions[module]; ok {
		return level == PermissionWrite
	}
	if !CanAccessModule(role, module) {
		return false
	}
	return cfg.CanWrite
}

// CanWriteAny reports whether the role carries the general write flag.
func CanWriteAny(role Role) bool {
	return Lookup(role).CanWrite
}

// AccessibleModules lists the modules the role may see, in display order.
func AccessibleModules(role Role) []Module {
	var modules []Module
	for _, m := range moduleOrder {
		if CanAccessModule(role, m) {
			modules = append(modules, m)
		}
	}
	return modules
}

// DefaultLandingModule picks the module a user is redirected to after
// authorization: dashboard for all-access roles, events for events-only
// roles, otherwise the first accessible module in display order.
func DefaultLandingModule(role Role) Module {
	cfg := Lookup(role)
	if cfg.AllModules {
		return ModuleDashboard
	}
	if cfg.DataScope == ScopeEventsOnly {
		return ModuleEvents
	}
	for _, m := range moduleOrder {
		if CanAccessModule(role, m) {
			return m
		}
	}
	return ModuleDashboard
}
