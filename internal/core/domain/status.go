package domain

// Status is a product's position in the manufacturing-to-sale workflow.
// Transitions move forward only, one step at a time.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusReady      Status = "READY"
	StatusRequested  Status = "REQUESTED"
	StatusDispatched Status = "DISPATCHED"
)

// Role identifies the department acting on a product.
type Role string

const (
	RoleAdmin         Role = "admin"
	RoleSales         Role = "sales"
	RoleManufacturing Role = "manufacturing"
)

// ValidStatus reports whether s is one of the workflow states.
func ValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusReady, StatusRequested, StatusDispatched:
		return true
	}
	return false
}

// ValidRole reports whether r is a known department role.
func ValidRole(r Role) bool {
	switch r {
	case RoleAdmin, RoleSales, RoleManufacturing:
		return true
	}
	return false
}
