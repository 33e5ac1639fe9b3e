// Package permission implements role-based access control over static
// tables: a permission registry that assigns bit positions to permission
// names, per-role 64-bit grant masks computed once at construction, and a
// route table mapping navigation paths to their required permission.
//
// All checks are pure functions over frozen data. Same inputs always yield
// the same output, nothing is mutated at runtime, and unknown roles,
// permissions, and routes uniformly resolve to deny.
package permission
