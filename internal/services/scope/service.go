package scope

import (
	"github.com/aulaplay/aulaplay-go/internal/model"
)

// Intent is the visibility a caller is asking for when touching a
// tenant-scoped collection
type Intent string

const (
	// IntentOwnPrivate covers an admin managing its own content
	IntentOwnPrivate Intent = "own-private"
	// IntentPublicOnly covers the platform-wide public catalogue,
	// reachable without authentication
	IntentPublicOnly Intent = "public-only"
	// IntentAllForAdmin covers admin-style queries over everything the
	// principal administers
	IntentAllForAdmin Intent = "all-for-admin"
	// IntentStudentContent covers a student reading its teacher's
	// published content
	IntentStudentContent Intent = "student-content"
)

// Resolve maps a principal and an intended visibility into the tenant
// filter every data-access path must apply before touching storage. It is a
// pure function: no state, no storage access.
//
// Precedence: superadmin first, then admins, then students, then
// unauthenticated callers.
func Resolve(p *model.Principal, intent Intent) (model.ScopeFilter, error) {
	switch intent {
	case IntentOwnPrivate, IntentAllForAdmin:
		return resolveManage(p)
	case IntentPublicOnly:
		return resolvePublic(p), nil
	case IntentStudentContent:
		return resolveStudentContent(p)
	default:
		return model.ScopeFilter{}, model.ErrAccessDenied
	}
}

// resolveManage builds the filter for "manage my content" queries
func resolveManage(p *model.Principal) (model.ScopeFilter, error) {
	if p == nil {
		return model.ScopeFilter{}, model.ErrAccessDenied
	}
	if p.IsSuperAdmin {
		// The superadmin sees everything, no ownership filter
		return model.ScopeAll(), nil
	}
	if p.Role == model.RoleAdmin {
		return model.ScopeOwner(p.OwnerAdmin), nil
	}
	return model.ScopeFilter{}, model.ErrAccessDenied
}

// resolvePublic builds the filter for the public catalogue. For the
// superadmin only the published restriction applies; everyone else is
// pinned to the public tenant.
func resolvePublic(p *model.Principal) model.ScopeFilter {
	if p != nil && p.IsSuperAdmin {
		return model.ScopeFilter{PublishedOnly: true}
	}
	f := model.ScopeOwner(nil)
	f.PublishedOnly = true
	return f
}

// resolveStudentContent builds the filter for a student reading its
// teacher's content. Students only ever see published documents of their
// own tenant; admins fall back to their manage scope.
func resolveStudentContent(p *model.Principal) (model.ScopeFilter, error) {
	if p == nil {
		return model.ScopeFilter{}, model.ErrAccessDenied
	}
	if p.IsSuperAdmin {
		return model.ScopeAll(), nil
	}
	if p.Role == model.RoleAdmin {
		return model.ScopeOwner(p.OwnerAdmin), nil
	}
	f := model.ScopeOwner(p.OwnerAdmin)
	f.PublishedOnly = true
	return f, nil
}

// ForAggregation builds the tenant filter applied before any ranking or
// stats aggregation: the superadmin aggregates everything, authenticated
// callers their own tenant, anonymous callers the public tenant.
func ForAggregation(p *model.Principal) model.ScopeFilter {
	if p == nil {
		return model.ScopeOwner(nil)
	}
	if p.IsSuperAdmin {
		return model.ScopeAll()
	}
	return model.ScopeOwner(p.OwnerAdmin)
}

// CanView reports whether the principal may see a single game through any
// of its read scopes. Used by resource-targeted reads where a cross-tenant
// id must be indistinguishable from a missing one.
func CanView(p *model.Principal, g *model.Game) bool {
	if f, err := Resolve(p, IntentStudentContent); err == nil && f.Matches(g.OwnerAdmin, g.IsPublished) {
		return true
	}
	return resolvePublic(p).Matches(g.OwnerAdmin, g.IsPublished)
}

// CanManage reports whether the principal may mutate the given game. A
// false result is surfaced as not-found, never as denied, so probing ids
// across tenants leaks nothing.
func CanManage(p *model.Principal, g *model.Game) bool {
	f, err := resolveManage(p)
	if err != nil {
		return false
	}
	return f.Matches(g.OwnerAdmin, g.IsPublished)
}
