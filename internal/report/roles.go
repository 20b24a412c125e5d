package report

import (
	"fmt"
	"slices"
	"strings"

	"basegraph.app/rollcall/internal/model"
)

// DefaultRoleColor is used for roles without a colour of their own.
const DefaultRoleColor = 0x2f3136

// RolePage is one rendered page of a role bucket.
type RolePage struct {
	RoleID string
	Title  string
	Body   string
	Color  int
	Footer string
}

// RoleBucket holds the members assigned to one role.
type RoleBucket struct {
	Role      model.Role
	MemberIDs []string
	Lines     []string
}

type RoleReport struct {
	Buckets       []RoleBucket
	Pages         []RolePage
	TotalAssigned int
}

type RoleAggregator struct {
	compare      CompareFunc
	memberFilter MemberFilter
	roleFilter   RoleFilter
	limits       Limits
}

type AggregatorOption func(*RoleAggregator)

// WithCompare sets the comparison used to order display names.
func WithCompare(cmp CompareFunc) AggregatorOption {
	return func(a *RoleAggregator) {
		a.compare = cmp
	}
}

// WithMemberFilter replaces the default Humans filter.
func WithMemberFilter(f MemberFilter) AggregatorOption {
	return func(a *RoleAggregator) {
		a.memberFilter = f
	}
}

// WithRoleFilter replaces the default NotEveryone filter.
func WithRoleFilter(f RoleFilter) AggregatorOption {
	return func(a *RoleAggregator) {
		a.roleFilter = f
	}
}

// WithLimits overrides DescriptionLimits for bucket pages.
func WithLimits(l Limits) AggregatorOption {
	return func(a *RoleAggregator) {
		a.limits = l
	}
}

func NewRoleAggregator(opts ...AggregatorOption) *RoleAggregator {
	a := &RoleAggregator{
		compare:      Ordinal,
		memberFilter: Humans,
		roleFilter:   NotEveryone,
		limits:       DescriptionLimits,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// assignment tracks which members already landed in a bucket during one
// Aggregate call.
type assignment map[string]struct{}

func (s assignment) has(id string) bool {
	_, ok := s[id]
	return ok
}

func (s assignment) add(id string) {
	s[id] = struct{}{}
}

// Aggregate puts every eligible member into the bucket of the highest ranked
// role they hold and renders the buckets as pages, highest role first.
// Their other roles are listed on the same line.
func (a *RoleAggregator) Aggregate(snapshot *model.Snapshot) (*RoleReport, error) {
	if snapshot == nil {
		return nil, fmt.Errorf("aggregating roles: %w", ErrSnapshotUnavailable)
	}

	roles := a.rankedRoles(snapshot)
	assigned := assignment{}
	report := &RoleReport{}

	for _, role := range roles {
		bucket, ok := a.fillBucket(snapshot, role, assigned)
		if !ok {
			continue
		}
		report.Buckets = append(report.Buckets, bucket)
		report.Pages = append(report.Pages, a.pages(bucket)...)
	}

	report.TotalAssigned = len(assigned)
	return report, nil
}

// rankedRoles returns the roles that pass the role filter, most senior first.
func (a *RoleAggregator) rankedRoles(snapshot *model.Snapshot) []model.Role {
	roles := make([]model.Role, 0, len(snapshot.Roles))
	for _, r := range snapshot.Roles {
		if a.roleFilter(snapshot.GuildID, r) {
			roles = append(roles, r)
		}
	}
	slices.SortStableFunc(roles, model.CompareRank)
	return roles
}

type bucketLine struct {
	memberID string
	name     string
	line     string
}

func (a *RoleAggregator) fillBucket(snapshot *model.Snapshot, role model.Role, assigned assignment) (RoleBucket, bool) {
	var lines []bucketLine
	for _, m := range snapshot.Members {
		if !a.memberFilter(m) || assigned.has(m.ID) || !m.HasRole(role.ID) {
			continue
		}
		others := a.otherRoles(snapshot, m, role)
		assigned.add(m.ID)
		lines = append(lines, bucketLine{
			memberID: m.ID,
			name:     m.DisplayName,
			line:     MemberLine(m.DisplayName, others),
		})
	}
	if len(lines) == 0 {
		return RoleBucket{}, false
	}

	slices.SortStableFunc(lines, func(x, y bucketLine) int {
		if c := a.compare(x.name, y.name); c != 0 {
			return c
		}
		if c := a.compare(x.line, y.line); c != 0 {
			return c
		}
		return strings.Compare(x.memberID, y.memberID)
	})

	bucket := RoleBucket{
		Role:      role,
		MemberIDs: make([]string, len(lines)),
		Lines:     make([]string, len(lines)),
	}
	for i, l := range lines {
		bucket.MemberIDs[i] = l.memberID
		bucket.Lines[i] = l.line
	}
	return bucket, true
}

// otherRoles lists the names of m's roles besides current, most senior first.
func (a *RoleAggregator) otherRoles(snapshot *model.Snapshot, m model.Member, current model.Role) []string {
	var held []model.Role
	for _, id := range m.RoleIDs {
		if id == current.ID {
			continue
		}
		r, ok := snapshot.Role(id)
		if !ok || r.IsEveryone(snapshot.GuildID) {
			continue
		}
		held = append(held, r)
	}
	slices.SortStableFunc(held, model.CompareRank)

	names := make([]string, len(held))
	for i, r := range held {
		names[i] = r.Name
	}
	return names
}

func (a *RoleAggregator) pages(bucket RoleBucket) []RolePage {
	chunks := Chunk(bucket.Lines, a.limits)
	color := bucket.Role.Color
	if color == 0 {
		color = DefaultRoleColor
	}

	pages := make([]RolePage, len(chunks))
	for i, chunk := range chunks {
		pages[i] = RolePage{
			RoleID: bucket.Role.ID,
			Title:  bucket.Role.Name + PartSuffix(i, len(chunks)),
			Body:   chunk.Text(),
			Color:  color,
			Footer: fmt.Sprintf("Mitglieder in dieser Liste: %d", len(bucket.Lines)),
		}
	}
	return pages
}

// MemberLine renders "- name" with the member's other roles in parentheses.
func MemberLine(name string, otherRoles []string) string {
	if len(otherRoles) == 0 {
		return "- " + name
	}
	return fmt.Sprintf("- %s (weitere: %s)", name, strings.Join(otherRoles, ", "))
}
