package model

// TenantID identifies an ownership scope. It is the user id of the owning
// admin; nil pointers denote the public tenant owned by the superadmin.
type TenantID string

// Role is the account role
type Role string

const (
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)

// Principal is the authenticated identity attached to a request
type Principal struct {
	UserID       UserID
	Role         Role
	OwnerAdmin   *TenantID
	IsSuperAdmin bool
}

// IsAdmin reports whether the principal holds the admin role
func (p *Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// Tenant returns the principal's ownership scope
func (p *Principal) Tenant() *TenantID {
	return p.OwnerAdmin
}

// TenantEqual compares two tenant pointers, treating nil as the public
// tenant
func TenantEqual(a, b *TenantID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// ScopeFilter restricts a collection read to one tenant's rows. The zero
// value matches nothing; construct via ScopeAll or ScopeOwner.
type ScopeFilter struct {
	// All bypasses the ownership restriction entirely
	All bool
	// OwnerSet pins matching to Owner's rows; Owner may be nil for the
	// public tenant
	OwnerSet bool
	Owner    *TenantID
	// PublishedOnly additionally hides unpublished rows
	PublishedOnly bool
}

// ScopeAll matches every tenant
func ScopeAll() ScopeFilter {
	return ScopeFilter{All: true}
}

// ScopeOwner matches a single tenant's rows
func ScopeOwner(owner *TenantID) ScopeFilter {
	return ScopeFilter{OwnerSet: true, Owner: owner}
}

// Matches reports whether a row with the given owner and published state
// passes the filter
func (f ScopeFilter) Matches(owner *TenantID, isPublished bool) bool {
	if f.PublishedOnly && !isPublished {
		return false
	}
	return f.MatchesOwner(owner)
}

// MatchesOwner applies only the ownership restriction
func (f ScopeFilter) MatchesOwner(owner *TenantID) bool {
	if f.All {
		return true
	}
	if !f.OwnerSet {
		return false
	}
	return TenantEqual(f.Owner, owner)
}
