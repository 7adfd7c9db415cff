package inventory

import (
	"fmt"

	"github.com/rl1809/stockroom/internal/core/domain"
)

// nextStatus is the single forward edge out of each non-terminal state.
var nextStatus = map[domain.Status]domain.Status{
	domain.StatusPending:   domain.StatusReady,
	domain.StatusReady:     domain.StatusRequested,
	domain.StatusRequested: domain.StatusDispatched,
}

// edgeRole is the department allowed to drive the edge landing on each
// state. Admin may drive any edge.
var edgeRole = map[domain.Status]domain.Role{
	domain.StatusReady:      domain.RoleManufacturing,
	domain.StatusRequested:  domain.RoleSales,
	domain.StatusDispatched: domain.RoleManufacturing,
}

// Transition moves the product to target if target is the immediate
// successor of the current status and role is authorized for that edge.
// A bare transition writes no history entry; history is reserved for
// stock-affecting events.
func Transition(p *domain.Product, target domain.Status, role domain.Role) error {
	if !domain.ValidStatus(target) || nextStatus[p.Status] != target {
		return fmt.Errorf("%w: %s to %s", domain.ErrInvalidTransition, p.Status, target)
	}
	if role != domain.RoleAdmin && edgeRole[target] != role {
		return fmt.Errorf("%w: %s cannot move %s to %s", domain.ErrForbidden, role, p.Status, target)
	}
	p.Status = target
	p.Touch()
	return nil
}
