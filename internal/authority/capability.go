package authority

import (
	"sort"
	"strings"
)

// Capability prefixes. Producer and consumers must agree byte-for-byte on
// these strings; they are the whole authorization contract.
const (
	rolePrefix       = "ROLE_"
	permissionPrefix = "PERMISSION_"
)

// RoleCapability returns the capability string for a role name, e.g.
// RoleCapability("admin") == "ROLE_ADMIN".
func RoleCapability(name string) string {
	return rolePrefix + strings.ToUpper(name)
}

// PermissionCapability returns the capability string for a permission name,
// e.g. PermissionCapability("event.invite") == "PERMISSION_EVENT.INVITE".
func PermissionCapability(name string) string {
	return permissionPrefix + strings.ToUpper(name)
}

// CapabilitySet is the full set of capability strings granted to a subject for
// one request. Membership is the sole authorization primitive; order carries
// no meaning.
type CapabilitySet map[string]struct{}

// NewCapabilitySet returns a set holding the given members.
func NewCapabilitySet(members ...string) CapabilitySet {
	s := make(CapabilitySet, len(members))
	for _, m := range members {
		s.Add(m)
	}
	return s
}

// Add inserts a capability string.
func (s CapabilitySet) Add(capability string) {
	s[capability] = struct{}{}
}

// Contains reports whether the exact capability string is a member.
// It performs no I/O.
func (s CapabilitySet) Contains(capability string) bool {
	_, ok := s[capability]
	return ok
}

// Members returns the capability strings in sorted order, for logging and
// deterministic test assertions.
func (s CapabilitySet) Members() []string {
	out := make([]string, 0, len(s))
	for m := range s {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}
