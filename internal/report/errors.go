package report

import "errors"

var (
	// ErrSnapshotUnavailable is returned when membership or reaction data could not be obtained.
	ErrSnapshotUnavailable = errors.New("snapshot unavailable")
	// ErrReactionMarkersMissing is returned when a poll message lacks the yes or the no reaction.
	ErrReactionMarkersMissing = errors.New("reaction markers missing")
	// ErrUnknownRole is returned when a role filter matches no role of the guild.
	ErrUnknownRole = errors.New("unknown role")
)
