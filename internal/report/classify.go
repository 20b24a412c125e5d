package report

import (
	"fmt"
	"slices"
	"strings"

	"basegraph.app/rollcall/internal/model"
)

// Field labels of the reaction check.
const (
	LabelYes  = ":white_check_mark: Ja"
	LabelNo   = ":x: Nein"
	LabelBoth = "KONFLIKT (beides)"
	LabelNone = "Keine Stimme"
)

type Category int

const (
	CategoryNone Category = iota
	CategoryYes
	CategoryNo
	CategoryBoth
)

// Categorize places one member by the reactions they left.
func Categorize(memberID string, votes *Votes) Category {
	y := votes.Yes.Has(memberID)
	n := votes.No.Has(memberID)
	switch {
	case y && n:
		return CategoryBoth
	case y:
		return CategoryYes
	case n:
		return CategoryNo
	default:
		return CategoryNone
	}
}

type Classification struct {
	Yes  []string
	No   []string
	Both []string
	None []string
}

// Total is the number of classified members.
func (c Classification) Total() int {
	return len(c.Yes) + len(c.No) + len(c.Both) + len(c.None)
}

// Field is a labelled block of an embed.
type Field struct {
	Name  string
	Value string
}

// Fields renders the four lists as embed fields. Empty lists still produce
// a placeholder field so every category is visible.
func (c Classification) Fields() []Field {
	var fields []Field
	for _, group := range []struct {
		label string
		names []string
	}{
		{LabelYes, c.Yes},
		{LabelNo, c.No},
		{LabelBoth, c.Both},
		{LabelNone, c.None},
	} {
		lines := make([]string, len(group.names))
		for i, name := range group.names {
			lines[i] = "- " + name
		}
		for _, s := range Sections(group.label, lines, FieldLimits, Placeholder) {
			fields = append(fields, Field{Name: s.Title, Value: s.Body})
		}
	}
	return fields
}

// TargetPopulation returns the human members a reaction check covers. With a
// role name only holders of that role (matched case-insensitively) count.
// Every member holds the everyone role, so naming it selects all humans.
func TargetPopulation(snapshot *model.Snapshot, roleName string) ([]model.Member, error) {
	if snapshot == nil {
		return nil, fmt.Errorf("selecting target population: %w", ErrSnapshotUnavailable)
	}

	filter := Humans
	if roleName != "" {
		role, ok := findRoleByName(snapshot, roleName)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownRole, roleName)
		}
		if !role.IsEveryone(snapshot.GuildID) {
			filter = AllMembers(Humans, func(m model.Member) bool {
				return m.HasRole(role.ID)
			})
		}
	}

	var members []model.Member
	for _, m := range snapshot.Members {
		if filter(m) {
			members = append(members, m)
		}
	}
	return members, nil
}

func findRoleByName(snapshot *model.Snapshot, name string) (model.Role, bool) {
	want := strings.ToLower(name)
	for _, r := range snapshot.Roles {
		if strings.ToLower(r.Name) == want {
			return r, true
		}
	}
	return model.Role{}, false
}

// Classify splits population into the four response categories. Each member
// lands in exactly one list; lists are ordered with cmp.
func Classify(population []model.Member, votes *Votes, cmp CompareFunc) Classification {
	if cmp == nil {
		cmp = Ordinal
	}

	var c Classification
	for _, m := range population {
		switch Categorize(m.ID, votes) {
		case CategoryBoth:
			c.Both = append(c.Both, m.DisplayName)
		case CategoryYes:
			c.Yes = append(c.Yes, m.DisplayName)
		case CategoryNo:
			c.No = append(c.No, m.DisplayName)
		default:
			c.None = append(c.None, m.DisplayName)
		}
	}

	for _, list := range [][]string{c.Yes, c.No, c.Both, c.None} {
		slices.SortStableFunc(list, func(a, b string) int { return cmp(a, b) })
	}
	return c
}
