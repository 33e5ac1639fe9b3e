package permission

import (
	"math"
	"testing"
)

func TestDefaultDeny(t *testing.T) {
	e := NewEngine()

	for _, role := range Hierarchy {
		if e.HasPermission(role, "NONEXISTENT_PERM") {
			t.Fatalf("role %s granted nonexistent permission", role)
		}
		if e.CanAccessRoute(role, "/unmapped") {
			t.Fatalf("role %s granted unmapped route", role)
		}
	}

	if e.HasPermission("", PermViewDashboard) {
		t.Fatal("empty role granted a permission")
	}
	if e.HasPermission("GHOST", PermViewDashboard) {
		t.Fatal("unknown role granted a permission")
	}
	if e.CanAccessRoute("GHOST", "/") {
		t.Fatal("unknown role granted a route")
	}
}

func TestHierarchyMonotonicity(t *testing.T) {
	e := NewEngine()

	for i, lower := range Hierarchy {
		for j, higher := range Hierarchy {
			if j <= i {
				continue
			}
			if !e.HasRoleLevel(higher, lower) {
				t.Fatalf("%s should be at least %s", higher, lower)
			}
			if e.HasRoleLevel(lower, higher) {
				t.Fatalf("%s should not reach %s", lower, higher)
			}
		}
		if !e.HasRoleLevel(lower, lower) {
			t.Fatalf("%s should satisfy its own level", lower)
		}
	}

	if e.HasRoleLevel("GHOST", RoleEmployee) {
		t.Fatal("unknown role passed a level check")
	}
	if e.HasRoleLevel(RoleSuperAdmin, "GHOST") {
		t.Fatal("unknown required role passed a level check")
	}
}

func TestCashierRouteAccess(t *testing.T) {
	e := NewEngine()

	if e.CanAccessRoute(RoleCashier, "/users") {
		t.Fatal("cashier can access /users")
	}
	if !e.CanAccessRoute(RoleCashier, "/pos") {
		t.Fatal("cashier cannot access /pos")
	}
	if !e.CanAccessRoute(RoleCashier, "/sale-returns") {
		t.Fatal("cashier cannot access /sale-returns")
	}
	if e.CanAccessRoute(RoleCashier, "/settings") {
		t.Fatal("cashier can access /settings")
	}
}

func TestSuperAdminHasEveryMappedRoute(t *testing.T) {
	e := NewEngine()
	for route := range routeTable {
		if !e.CanAccessRoute(RoleSuperAdmin, route) {
			t.Fatalf("super admin denied route %s", route)
		}
	}
	if got, want := len(e.AllowedRoutes(RoleSuperAdmin)), len(routeTable); got != want {
		t.Fatalf("super admin allowed routes = %d, want %d", got, want)
	}
}

func TestAllowedRoutesSortedAndDeterministic(t *testing.T) {
	e := NewEngine()

	first := e.AllowedRoutes(RolePharmacist)
	second := e.AllowedRoutes(RolePharmacist)
	if len(first) == 0 {
		t.Fatal("pharmacist has no allowed routes")
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatal("AllowedRoutes is not deterministic")
		}
		if i > 0 && first[i-1] >= first[i] {
			t.Fatal("AllowedRoutes is not sorted")
		}
	}
}

func TestMaskStability(t *testing.T) {
	// Bit assignment must be identical across engines, since masks may be
	// compared against values decoded from tokens minted elsewhere.
	a, b := NewEngine(), NewEngine()
	for _, role := range Hierarchy {
		if a.roleMasks[role] != b.roleMasks[role] {
			t.Fatalf("mask for %s differs between engines", role)
		}
	}
}

func TestGrantTableCoversRegistrationOrder(t *testing.T) {
	if len(grantTable) != len(registrationOrder) {
		t.Fatalf("grant table has %d entries, registration order %d", len(grantTable), len(registrationOrder))
	}
	for _, name := range registrationOrder {
		if _, ok := grantTable[name]; !ok {
			t.Fatalf("registered permission %s absent from grant table", name)
		}
	}
}

func TestSalesCaps(t *testing.T) {
	e := NewEngine()

	if !math.IsInf(e.SalesCapsFor(RoleSuperAdmin).CreditLimit, 1) {
		t.Fatal("super admin credit limit should be unlimited")
	}
	if e.MaxDiscount(RoleCashier) != 5 {
		t.Fatalf("cashier max discount = %v, want 5", e.MaxDiscount(RoleCashier))
	}
	if caps := e.SalesCapsFor(RoleEmployee); caps.CanGiveCredit || caps.MaxDiscountPercent != 0 {
		t.Fatalf("employee should have zero sales caps, got %+v", caps)
	}
}

func TestPermissionsListing(t *testing.T) {
	e := NewEngine()

	perms := e.Permissions(RoleCashier)
	want := map[string]bool{
		PermAccessPOS:     true,
		PermViewSales:     true,
		PermViewCustomers: true,
	}
	if len(perms) != len(want) {
		t.Fatalf("cashier permissions = %v, want %d entries", perms, len(want))
	}
	for _, p := range perms {
		if !want[p] {
			t.Fatalf("cashier unexpectedly holds %s", p)
		}
	}

	if e.Permissions("GHOST") != nil {
		t.Fatal("unknown role should list no permissions")
	}
}
