package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func tenant(id string) *TenantID {
	t := TenantID(id)
	return &t
}

func TestTenantEqual(t *testing.T) {
	assert.True(t, TenantEqual(nil, nil))
	assert.True(t, TenantEqual(tenant("a"), tenant("a")))
	assert.False(t, TenantEqual(tenant("a"), tenant("b")))
	assert.False(t, TenantEqual(nil, tenant("a")))
	assert.False(t, TenantEqual(tenant("a"), nil))
}

func TestScopeFilterZeroValueMatchesNothing(t *testing.T) {
	var f ScopeFilter
	assert.False(t, f.MatchesOwner(nil))
	assert.False(t, f.MatchesOwner(tenant("a")))
}

func TestScopeAllMatchesEveryTenant(t *testing.T) {
	f := ScopeAll()
	assert.True(t, f.MatchesOwner(nil))
	assert.True(t, f.MatchesOwner(tenant("a")))
}

func TestScopeOwnerPinsTenant(t *testing.T) {
	f := ScopeOwner(tenant("a"))
	assert.True(t, f.MatchesOwner(tenant("a")))
	assert.False(t, f.MatchesOwner(tenant("b")))
	assert.False(t, f.MatchesOwner(nil))

	public := ScopeOwner(nil)
	assert.True(t, public.MatchesOwner(nil))
	assert.False(t, public.MatchesOwner(tenant("a")))
}

func TestScopeFilterPublishedOnly(t *testing.T) {
	f := ScopeOwner(tenant("a"))
	f.PublishedOnly = true

	assert.True(t, f.Matches(tenant("a"), true))
	assert.False(t, f.Matches(tenant("a"), false))
	assert.False(t, f.Matches(tenant("b"), true))
}

func TestGameIsLegacy(t *testing.T) {
	assert.True(t, (&Game{}).IsLegacy())
	assert.False(t, (&Game{IsPublic: true}).IsLegacy())
	assert.False(t, (&Game{OwnerAdmin: tenant("a")}).IsLegacy())
}
