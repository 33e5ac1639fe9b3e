package permission

import "math"

// Role identifies one of the fixed pharmacy staff roles.
type Role string

const (
	RoleEmployee         Role = "EMPLOYEE"
	RoleCashier          Role = "CASHIER"
	RoleAccountant       Role = "ACCOUNTANT"
	RoleInventoryManager Role = "INVENTORY_MANAGER"
	RolePharmacist       Role = "PHARMACIST"
	RoleBranchManager    Role = "BRANCH_MANAGER"
	RoleAdmin            Role = "ADMIN"
	RoleSuperAdmin       Role = "SUPER_ADMIN"
)

// Hierarchy orders roles from least to most privileged. Position in this
// slice is the role's level for at-least-as-privileged comparisons; it is
// independent of the per-capability grant table below.
var Hierarchy = []Role{
	RoleEmployee,
	RoleCashier,
	RoleAccountant,
	RoleInventoryManager,
	RolePharmacist,
	RoleBranchManager,
	RoleAdmin,
	RoleSuperAdmin,
}

// Permission keys. Each maps to the set of roles allowed to exercise it.
const (
	PermViewDashboard         = "VIEW_DASHBOARD"
	PermAccessPOS             = "ACCESS_POS"
	PermViewProducts          = "VIEW_PRODUCTS"
	PermCreateProduct         = "CREATE_PRODUCT"
	PermEditProduct           = "EDIT_PRODUCT"
	PermDeleteProduct         = "DELETE_PRODUCT"
	PermViewCategories        = "VIEW_CATEGORIES"
	PermViewInventory         = "VIEW_INVENTORY"
	PermManageInventory       = "MANAGE_INVENTORY"
	PermViewPurchaseOrders    = "VIEW_PURCHASE_ORDERS"
	PermApprovePurchaseOrders = "APPROVE_PURCHASE_ORDERS"
	PermViewGRN               = "VIEW_GRN"
	PermViewSales             = "VIEW_SALES"
	PermViewCustomers         = "VIEW_CUSTOMERS"
	PermViewSuppliers         = "VIEW_SUPPLIERS"
	PermViewReports           = "VIEW_REPORTS"
	PermViewUsers             = "VIEW_USERS"
	PermManageUsers           = "MANAGE_USERS"
	PermViewBranches          = "VIEW_BRANCHES"
	PermViewSettings          = "VIEW_SETTINGS"
	PermViewAuditLogs         = "VIEW_AUDIT_LOGS"
)

// grantTable maps each permission to the roles that hold it. This is the
// single source of truth for capability checks; role masks are derived from
// it once at engine construction.
var grantTable = map[string][]Role{
	PermViewDashboard:         {RoleEmployee, RoleAccountant, RoleInventoryManager, RoleBranchManager, RoleAdmin, RoleSuperAdmin},
	PermAccessPOS:             {RoleCashier, RolePharmacist, RoleBranchManager, RoleAdmin, RoleSuperAdmin},
	PermViewProducts:          {RoleInventoryManager, RolePharmacist, RoleBranchManager, RoleAdmin, RoleSuperAdmin},
	PermCreateProduct:         {RoleInventoryManager, RoleBranchManager, RoleAdmin, RoleSuperAdmin},
	PermEditProduct:           {RoleInventoryManager, RoleBranchManager, RoleAdmin, RoleSuperAdmin},
	PermDeleteProduct:         {RoleSuperAdmin},
	PermViewCategories:        {RoleInventoryManager, RolePharmacist, RoleBranchManager, RoleAdmin, RoleSuperAdmin},
	PermViewInventory:         {RoleInventoryManager, RolePharmacist, RoleBranchManager, RoleAdmin, RoleSuperAdmin},
	PermManageInventory:       {RoleInventoryManager, RoleBranchManager, RoleAdmin, RoleSuperAdmin},
	PermViewPurchaseOrders:    {RoleInventoryManager, RoleBranchManager, RoleAdmin, RoleSuperAdmin},
	PermApprovePurchaseOrders: {RoleBranchManager, RoleAdmin, RoleSuperAdmin},
	PermViewGRN:               {RoleInventoryManager, RoleBranchManager, RoleAdmin, RoleSuperAdmin},
	PermViewSales:             {RoleCashier, RoleAccountant, RolePharmacist, RoleBranchManager, RoleAdmin, RoleSuperAdmin},
	PermViewCustomers:         {RoleCashier, RolePharmacist, RoleBranchManager, RoleAdmin, RoleSuperAdmin},
	PermViewSuppliers:         {RoleInventoryManager, RoleBranchManager, RoleAdmin, RoleSuperAdmin},
	PermViewReports:           {RoleAccountant, RoleBranchManager, RoleAdmin, RoleSuperAdmin},
	PermViewUsers:             {RoleAdmin, RoleSuperAdmin},
	PermManageUsers:           {RoleAdmin, RoleSuperAdmin},
	PermViewBranches:          {RoleAdmin, RoleSuperAdmin},
	PermViewSettings:          {RoleBranchManager, RoleAdmin, RoleSuperAdmin},
	PermViewAuditLogs:         {RoleAdmin, RoleSuperAdmin},
}

// registrationOrder fixes the bit assignment so masks are stable across
// processes (map iteration order is not).
var registrationOrder = []string{
	PermViewDashboard,
	PermAccessPOS,
	PermViewProducts,
	PermCreateProduct,
	PermEditProduct,
	PermDeleteProduct,
	PermViewCategories,
	PermViewInventory,
	PermManageInventory,
	PermViewPurchaseOrders,
	PermApprovePurchaseOrders,
	PermViewGRN,
	PermViewSales,
	PermViewCustomers,
	PermViewSuppliers,
	PermViewReports,
	PermViewUsers,
	PermManageUsers,
	PermViewBranches,
	PermViewSettings,
	PermViewAuditLogs,
}

// routeTable maps each navigation path to the single permission required to
// access it. Routes guarded by an explicit role set instead are expressed at
// the route guard, never here.
var routeTable = map[string]string{
	"/":                PermViewDashboard,
	"/pos":             PermAccessPOS,
	"/products":        PermViewProducts,
	"/categories":      PermViewCategories,
	"/inventory":       PermViewInventory,
	"/purchase-orders": PermViewPurchaseOrders,
	"/grn":             PermViewGRN,
	"/sales":           PermViewSales,
	"/sale-returns":    PermAccessPOS,
	"/customers":       PermViewCustomers,
	"/suppliers":       PermViewSuppliers,
	"/reports":         PermViewReports,
	"/users":           PermViewUsers,
	"/branches":        PermViewBranches,
	"/settings":        PermViewSettings,
	"/audit-logs":      PermViewAuditLogs,
}

// defaultPaths is the post-login landing route per role.
var defaultPaths = map[Role]string{
	RoleSuperAdmin:       "/",
	RoleAdmin:            "/",
	RoleBranchManager:    "/",
	RolePharmacist:       "/pos",
	RoleCashier:          "/pos",
	RoleInventoryManager: "/inventory",
	RoleAccountant:       "/reports",
	RoleEmployee:         "/",
}

// SalesCaps bounds what a role may do at the point of sale.
type SalesCaps struct {
	MaxDiscountPercent float64
	CanGiveCredit      bool
	CreditLimit        float64
}

var salesCaps = map[Role]SalesCaps{
	RoleSuperAdmin:    {MaxDiscountPercent: 100, CanGiveCredit: true, CreditLimit: math.Inf(1)},
	RoleAdmin:         {MaxDiscountPercent: 20, CanGiveCredit: true, CreditLimit: 50000},
	RoleBranchManager: {MaxDiscountPercent: 15, CanGiveCredit: true, CreditLimit: 25000},
	RolePharmacist:    {MaxDiscountPercent: 10},
	RoleCashier:       {MaxDiscountPercent: 5},
}
