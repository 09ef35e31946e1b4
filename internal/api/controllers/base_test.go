package controllers

import (
	"testing"

	"shepherd/internal/authz"
	"shepherd/internal/models"
)

func TestScopeAllows(t *testing.T) {
	scope := authz.Scope{ChurchIDs: []string{"ch-1", "ch-2"}}

	tests := []struct {
		name   string
		entity any
		scope  authz.Scope
		want   bool
	}{
		{
			name:   "church inside scope by own id",
			entity: &models.Church{Base: models.Base{ID: "ch-1"}},
			scope:  scope,
			want:   true,
		},
		{
			name:   "church outside scope by own id",
			entity: &models.Church{Base: models.Base{ID: "ch-999"}},
			scope:  scope,
			want:   false,
		},
		{
			name:   "member inside scope by church key",
			entity: &models.Member{ChurchID: "ch-2"},
			scope:  scope,
			want:   true,
		},
		{
			name:   "member outside scope by church key",
			entity: &models.Member{ChurchID: "ch-3"},
			scope:  scope,
			want:   false,
		},
		{
			name:   "church outside empty restricted scope",
			entity: &models.Church{Base: models.Base{ID: "ch-1"}},
			scope:  authz.Scope{},
			want:   false,
		},
		{
			name:   "unrestricted scope admits any church",
			entity: &models.Church{Base: models.Base{ID: "ch-999"}},
			scope:  authz.Scope{Unrestricted: true},
			want:   true,
		},
		{
			name:   "model without a church key is not filtered",
			entity: &models.Field{Base: models.Base{ID: "f-1"}},
			scope:  scope,
			want:   true,
		},
		{
			name:   "unsaved church with no id yet is admitted",
			entity: &models.Church{},
			scope:  scope,
			want:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := scopeAllows(tt.entity, tt.scope); got != tt.want {
				t.Errorf("scopeAllows() = %v, want %v", got, tt.want)
			}
		})
	}
}
