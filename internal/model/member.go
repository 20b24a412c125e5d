package model

import "strings"

// EveryoneRoleName is the name Discord gives the implicit role every member holds.
const EveryoneRoleName = "@everyone"

type Role struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Position int    `json:"position"` // higher = more senior
	Color    int    `json:"color,omitempty"`
}

// IsEveryone reports whether r is the implicit everyone role of guildID.
// Discord gives that role the guild's own id.
func (r Role) IsEveryone(guildID string) bool {
	return r.ID == guildID || r.Name == EveryoneRoleName
}

type Member struct {
	ID          string   `json:"id"`
	DisplayName string   `json:"display_name"`
	RoleIDs     []string `json:"role_ids,omitempty"`
	Bot         bool     `json:"bot"`
}

// HasRole reports whether the member holds roleID.
func (m Member) HasRole(roleID string) bool {
	for _, id := range m.RoleIDs {
		if id == roleID {
			return true
		}
	}
	return false
}

// User is a reactor identity as returned by a reaction listing.
type User struct {
	ID  string `json:"id"`
	Bot bool   `json:"bot"`
}

// Snapshot is a point-in-time view of a guild's roles and members.
// It is rebuilt on every invocation and never cached.
type Snapshot struct {
	GuildID string   `json:"guild_id"`
	Roles   []Role   `json:"roles"`
	Members []Member `json:"members"`
}

// Role looks up a role by id.
func (s *Snapshot) Role(id string) (Role, bool) {
	for _, r := range s.Roles {
		if r.ID == id {
			return r, true
		}
	}
	return Role{}, false
}

// CompareRank orders roles most senior first: by descending position, and on
// equal positions the older (smaller) id first, as Discord does.
func CompareRank(x, y Role) int {
	if x.Position != y.Position {
		if x.Position > y.Position {
			return -1
		}
		return 1
	}
	return CompareIDs(x.ID, y.ID)
}

// CompareIDs compares decimal snowflakes numerically without parsing them.
func CompareIDs(x, y string) int {
	if len(x) != len(y) {
		if len(x) < len(y) {
			return -1
		}
		return 1
	}
	return strings.Compare(x, y)
}
