package report

import (
	"context"
	"fmt"

	"basegraph.app/rollcall/internal/model"
)

// ReactionPageSize is the largest page Discord returns for a reaction listing.
const ReactionPageSize = 100

const (
	YesEmoji = "✅"
	NoEmoji  = "❌"
)

// ReactionPager lists the users who reacted with emoji on a message, in id
// order, starting strictly after the given cursor.
type ReactionPager interface {
	FetchReactionPage(ctx context.Context, msg model.MessageRef, emoji string, after string, limit int) ([]model.User, error)
}

// IDSet is a set of member ids.
type IDSet map[string]struct{}

func NewIDSet(ids ...string) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

func (s IDSet) Add(id string) {
	s[id] = struct{}{}
}

func (s IDSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

func (s IDSet) Len() int {
	return len(s)
}

// CollectReactions walks every page of reactors for emoji and returns the ids
// of the human ones. The walk uses the last id seen as cursor and stops at an
// empty or short page. A failed fetch aborts the walk.
func CollectReactions(ctx context.Context, pager ReactionPager, msg model.MessageRef, emoji string) (IDSet, error) {
	ids := IDSet{}
	after := ""
	for {
		batch, err := pager.FetchReactionPage(ctx, msg, emoji, after, ReactionPageSize)
		if err != nil {
			return nil, fmt.Errorf("fetching %s reactions after %q: %w: %w", emoji, after, ErrSnapshotUnavailable, err)
		}
		if len(batch) == 0 {
			break
		}
		for _, u := range batch {
			if !u.Bot {
				ids.Add(u.ID)
			}
			after = u.ID
		}
		if len(batch) < ReactionPageSize {
			break
		}
	}
	return ids, nil
}

// Markers are the two poll reactions found on a message.
type Markers struct {
	Yes model.Reaction
	No  model.Reaction
}

// FindMarkers locates the yes and no reactions on msg.
func FindMarkers(msg *model.Message) (Markers, error) {
	var (
		markers Markers
		yes, no bool
	)
	for _, r := range msg.Reactions {
		switch r.Name {
		case YesEmoji:
			markers.Yes, yes = r, true
		case NoEmoji:
			markers.No, no = r, true
		}
	}
	if !yes || !no {
		return Markers{}, ErrReactionMarkersMissing
	}
	return markers, nil
}

// Votes holds the human reactors of both poll markers.
type Votes struct {
	Yes IDSet
	No  IDSet
}

// CollectVotes finds both markers on msg and collects their reactors. Nothing
// is returned unless both walks complete.
func CollectVotes(ctx context.Context, pager ReactionPager, msg *model.Message) (*Votes, error) {
	markers, err := FindMarkers(msg)
	if err != nil {
		return nil, err
	}
	yes, err := CollectReactions(ctx, pager, msg.Ref, markers.Yes.Emoji)
	if err != nil {
		return nil, err
	}
	no, err := CollectReactions(ctx, pager, msg.Ref, markers.No.Emoji)
	if err != nil {
		return nil, err
	}
	return &Votes{Yes: yes, No: no}, nil
}
