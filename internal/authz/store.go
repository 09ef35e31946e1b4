package authz

import "context"

// Assignments is the subset of a user's profile consulted during scope
// resolution. Empty strings mean the assignment is unset.
type Assignments struct {
	ChurchID          string
	DistrictID        string
	FieldID           string
	AssignedChurchIDs []string
}

// Store supplies the organizational data behind scope resolution.
type Store interface {
	// UserAssignments loads the assignment fields for a user.
	UserAssignments(ctx context.Context, userID string) (Assignments, error)
	// ChurchIDsByField returns the ids of every church in the field.
	ChurchIDsByField(ctx context.Context, fieldID string) ([]string, error)
	// ChurchIDsByDistrict returns the ids of every church in the district.
	ChurchIDsByDistrict(ctx context.Context, districtID string) ([]string, error)
}
