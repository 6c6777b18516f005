package engine

import "errors"

// Fatal input validation errors. Anything structurally unusable about the
// snapshot aborts the run before any scoring happens; per-entity problems
// downstream degrade or exclude instead.
var (
	ErrNoTeams       = errors.New("snapshot contains no teams")
	ErrNoPlayers     = errors.New("snapshot contains no players")
	ErrInvalidSeason = errors.New("snapshot has no valid season")
)
