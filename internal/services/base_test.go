package services

import (
	"testing"

	"shepherd/internal/models"
)

func TestScopeColumn(t *testing.T) {
	tests := []struct {
		name  string
		model any
		want  string
	}{
		{name: "church is keyed by its own id", model: models.Church{}, want: "id"},
		{name: "member carries a church foreign key", model: models.Member{}, want: "church_id"},
		{name: "visitor carries a church foreign key", model: models.Visitor{}, want: "church_id"},
		{name: "event carries a church foreign key", model: models.Event{}, want: "church_id"},
		{name: "user carries a church foreign key", model: models.User{}, want: "church_id"},
		{name: "field is not church-keyed", model: models.Field{}, want: ""},
		{name: "district is not church-keyed", model: models.District{}, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ScopeColumn(tt.model); got != tt.want {
				t.Errorf("ScopeColumn(%T) = %q, want %q", tt.model, got, tt.want)
			}
		})
	}
}
