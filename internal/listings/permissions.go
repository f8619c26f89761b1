package listings

// Role classifies the actor attempting a mutation.
type Role string

const (
	RoleAgent      Role = "AGENT"
	RoleAdmin      Role = "ADMIN"
	RoleSuperAdmin Role = "SUPER_ADMIN"
)

// Actor identifies the caller of a mutation operation.
type Actor struct {
	ID       string
	Role     Role
	AgencyID string
}

// canMutate authorizes update/delete: the listing's own agent, an admin of
// the owning agency, or a super admin. Runs before any write.
func canMutate(actor Actor, l Listing) bool {
	if actor.ID != "" && actor.ID == l.AgentID {
		return true
	}
	if actor.Role == RoleAdmin && actor.AgencyID != "" && actor.AgencyID == l.AgencyID {
		return true
	}
	return actor.Role == RoleSuperAdmin
}
