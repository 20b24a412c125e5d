package report

import "basegraph.app/rollcall/internal/model"

// MemberFilter decides whether a member takes part in a report.
type MemberFilter func(model.Member) bool

// RoleFilter decides whether a role becomes a bucket.
type RoleFilter func(guildID string, role model.Role) bool

// Humans drops automated accounts.
func Humans(m model.Member) bool {
	return !m.Bot
}

// NotEveryone drops the implicit everyone role.
func NotEveryone(guildID string, r model.Role) bool {
	return !r.IsEveryone(guildID)
}

// AllMembers keeps every member passing all filters.
func AllMembers(filters ...MemberFilter) MemberFilter {
	return func(m model.Member) bool {
		for _, f := range filters {
			if !f(m) {
				return false
			}
		}
		return true
	}
}

// AllRoles keeps every role passing all filters.
func AllRoles(filters ...RoleFilter) RoleFilter {
	return func(guildID string, r model.Role) bool {
		for _, f := range filters {
			if !f(guildID, r) {
				return false
			}
		}
		return true
	}
}
