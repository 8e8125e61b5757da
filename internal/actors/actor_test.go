package actors_test

import (
	"testing"

	"github.com/lectio-edu/lectio/internal/actors"
)

func TestRoleCapabilities(t *testing.T) {
	tests := []struct {
		role string
		want actors.Capability
	}{
		{actors.RoleTeacher, actors.CapAuthor},
		{actors.RoleProgramLeader, actors.CapAuthor},
		{actors.RoleDean, actors.CapDean},
		{actors.RoleUmu, actors.CapMethodology},
		{actors.RoleAdmin, actors.CapAuthor | actors.CapDean | actors.CapMethodology | actors.CapOverride},
		{"registrar", 0},
		{"", 0},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			if got := actors.RoleCapabilities(tt.role); got != tt.want {
				t.Errorf("RoleCapabilities(%q) = %b, want %b", tt.role, got, tt.want)
			}
		})
	}
}

func TestCapabilityHas(t *testing.T) {
	caps := actors.CapAuthor | actors.CapDean

	if !caps.Has(actors.CapAuthor) {
		t.Error("set should contain CapAuthor")
	}
	if !caps.Has(actors.CapDean) {
		t.Error("set should contain CapDean")
	}
	if caps.Has(actors.CapOverride) {
		t.Error("set should not contain CapOverride")
	}
}

func TestActorCapabilities(t *testing.T) {
	admin := actors.Actor{Role: actors.RoleAdmin}
	if !admin.Capabilities().Has(actors.CapOverride) {
		t.Error("admin should carry CapOverride")
	}

	teacher := actors.Actor{Role: actors.RoleTeacher}
	if teacher.Capabilities().Has(actors.CapDean) {
		t.Error("teacher should not carry CapDean")
	}
}
