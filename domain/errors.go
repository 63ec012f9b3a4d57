package domain

import "errors"

// Input validation
var (
	ErrEmptyName       = errors.New("empty-name")
	ErrNameTooLong     = errors.New("name-too-long")
	ErrTooManyPlayers  = errors.New("too-many-players")
	ErrUnknownPlayer   = errors.New("unknown-player")
	ErrEmptyClue       = errors.New("empty-clue")
	ErrClueTooLong     = errors.New("clue-too-long")
	ErrInvalidRules    = errors.New("invalid-rules")
	ErrInvalidCategory = errors.New("invalid-category")
	ErrInvalidVote     = errors.New("invalid-vote")
	ErrInvalidGuess    = errors.New("invalid-guess")
	ErrEmptyTheme      = errors.New("empty-theme")
	ErrUnknownAction   = errors.New("unknown-action")
)

// Phase and turn guards
var (
	ErrWrongPhase        = errors.New("wrong-phase")
	ErrNotYourTurn       = errors.New("not-your-turn")
	ErrTooFewPlayers     = errors.New("too-few-players")
	ErrRerollUnavailable = errors.New("reroll-unavailable")
	ErrStaleAction       = errors.New("stale-action")
	ErrAlreadyGenerating = errors.New("already-generating")
	ErrNoCategories      = errors.New("no-categories")
)

// AI assist failures. Always recovered locally by the caller.
var (
	ErrAssistDisabled    = errors.New("assist-disabled")
	ErrAssistStatus      = errors.New("assist-status")
	ErrAssistMalformed   = errors.New("assist-malformed")
	ErrAssistSchema      = errors.New("assist-schema")
	ErrAssistRateLimited = errors.New("assist-rate-limited")
)
