package domain

// ActorRole identifies which party performs a call
type ActorRole string

const (
	RoleCustomer ActorRole = "customer"
	RoleVendor   ActorRole = "vendor"
	RoleSystem   ActorRole = "system"
)

// Actor is the authenticated caller of a mutating operation
type Actor struct {
	ID   string
	Role ActorRole
}

// SystemActor is used for transitions driven by collaborators such as payments
func SystemActor(name string) Actor {
	return Actor{ID: name, Role: RoleSystem}
}

func (a Actor) IsCustomer(customerID string) bool {
	return a.Role == RoleCustomer && a.ID != "" && a.ID == customerID
}

func (a Actor) IsVendor(vendorID string) bool {
	return a.Role == RoleVendor && a.ID != "" && a.ID == vendorID
}

func (a Actor) IsSystem() bool {
	return a.Role == RoleSystem
}

// ParseActorRole validates a role claim
func ParseActorRole(s string) (ActorRole, bool) {
	switch r := ActorRole(s); r {
	case RoleCustomer, RoleVendor, RoleSystem:
		return r, true
	default:
		return "", false
	}
}
