package permission

import "sort"

// Engine answers role/permission/route questions over the static tables.
// Construction registers every permission, derives one [Mask64] per role,
// and freezes the registry; after that every method is a pure lookup and
// safe for concurrent use.
type Engine struct {
	registry  *Registry
	roleMasks map[Role]Mask64
	roleLevel map[Role]int
}

// NewEngine builds the engine from the package's grant, route, and
// hierarchy tables.
func NewEngine() *Engine {
	e := &Engine{
		registry:  NewRegistry(),
		roleMasks: make(map[Role]Mask64, len(Hierarchy)),
		roleLevel: make(map[Role]int, len(Hierarchy)),
	}

	for _, name := range registrationOrder {
		// The order slice and grant table are maintained together; a
		// mismatch is a programming error caught by tests.
		if _, err := e.registry.Register(name); err != nil {
			panic("permission: " + err.Error())
		}
	}
	e.registry.Freeze()

	for perm, roles := range grantTable {
		bit, ok := e.registry.Bit(perm)
		if !ok {
			panic("permission: grant for unregistered permission " + perm)
		}
		for _, role := range roles {
			mask := e.roleMasks[role]
			mask.Set(bit)
			e.roleMasks[role] = mask
		}
	}

	for level, role := range Hierarchy {
		e.roleLevel[role] = level
	}

	return e
}

// HasPermission reports whether role holds the named permission. Unknown
// permissions, unknown roles, and the empty role all deny.
func (e *Engine) HasPermission(role Role, permission string) bool {
	bit, ok := e.registry.Bit(permission)
	if !ok {
		return false
	}
	mask, ok := e.roleMasks[role]
	if !ok {
		return false
	}
	return mask.Has(bit)
}

// CanAccessRoute resolves route to its required permission and delegates to
// [Engine.HasPermission]. Unmapped routes deny.
func (e *Engine) CanAccessRoute(role Role, route string) bool {
	permission, ok := routeTable[route]
	if !ok {
		return false
	}
	return e.HasPermission(role, permission)
}

// HasRoleLevel reports whether role sits at or above requiredRole in the
// hierarchy. Either side being unknown denies.
func (e *Engine) HasRoleLevel(role, requiredRole Role) bool {
	level, ok := e.roleLevel[role]
	if !ok {
		return false
	}
	required, ok := e.roleLevel[requiredRole]
	if !ok {
		return false
	}
	return level >= required
}

// HasAnyRole reports whether role is one of roles.
func (e *Engine) HasAnyRole(role Role, roles []Role) bool {
	for _, r := range roles {
		if role == r {
			return true
		}
	}
	return false
}

// AllowedRoutes returns the sorted set of routes the role may access.
func (e *Engine) AllowedRoutes(role Role) []string {
	var routes []string
	for route, permission := range routeTable {
		if e.HasPermission(role, permission) {
			routes = append(routes, route)
		}
	}
	sort.Strings(routes)
	return routes
}

// Permissions returns the sorted permission names granted to role.
func (e *Engine) Permissions(role Role) []string {
	mask, ok := e.roleMasks[role]
	if !ok {
		return nil
	}
	var names []string
	for bit := 0; bit < e.registry.Len(); bit++ {
		if !mask.Has(bit) {
			continue
		}
		if name, ok := e.registry.Name(bit); ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// DefaultPath returns the landing route for a role after login, falling
// back to the dashboard for unknown roles.
func (e *Engine) DefaultPath(role Role) string {
	if path, ok := defaultPaths[role]; ok {
		return path
	}
	return "/"
}

// SalesCapsFor returns the point-of-sale limits for a role. Roles without
// an entry get the zero caps: no discount, no credit.
func (e *Engine) SalesCapsFor(role Role) SalesCaps {
	return salesCaps[role]
}

// MaxDiscount returns the maximum discount percentage the role may apply.
func (e *Engine) MaxDiscount(role Role) float64 {
	return salesCaps[role].MaxDiscountPercent
}

// ValidRole reports whether role appears in the hierarchy.
func (e *Engine) ValidRole(role Role) bool {
	_, ok := e.roleLevel[role]
	return ok
}
