package listings

import "testing"

func TestCanMutate(t *testing.T) {
	listing := Listing{ID: "l1", AgentID: "agent-1", AgencyID: "agency-1"}

	tests := []struct {
		name  string
		actor Actor
		want  bool
	}{
		{
			name:  "owning agent",
			actor: Actor{ID: "agent-1", Role: RoleAgent},
			want:  true,
		},
		{
			name:  "other agent",
			actor: Actor{ID: "agent-2", Role: RoleAgent},
			want:  false,
		},
		{
			name:  "admin of owning agency",
			actor: Actor{ID: "admin-1", Role: RoleAdmin, AgencyID: "agency-1"},
			want:  true,
		},
		{
			name:  "admin of another agency",
			actor: Actor{ID: "admin-2", Role: RoleAdmin, AgencyID: "agency-2"},
			want:  false,
		},
		{
			name:  "admin with no agency",
			actor: Actor{ID: "admin-3", Role: RoleAdmin},
			want:  false,
		},
		{
			name:  "super admin",
			actor: Actor{ID: "root", Role: RoleSuperAdmin},
			want:  true,
		},
		{
			name:  "anonymous",
			actor: Actor{},
			want:  false,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := canMutate(tc.actor, listing); got != tc.want {
				t.Fatalf("canMutate(%+v) = %v, want %v", tc.actor, got, tc.want)
			}
		})
	}
}
