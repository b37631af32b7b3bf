// internal/game/types.go
//
// Core type definitions for the daily country game.
// Defines:
//   - Guess: immutable scored submission.
//   - Status: playing / won / lost.
//   - Record + SessionStore: the persisted per-day shape and its store.
//   - Session: the live per-day state owned by a Machine.

package game

import (
	"context"

	"github.com/robalobadob/worldle/internal/countries"
	"github.com/robalobadob/worldle/internal/daily"
)

// MaxTries is the number of guesses allowed per day.
const MaxTries = 6

// Mode flag names, as persisted.
const (
	FlagHideImage = "hideImageMode"
	FlagRotation  = "rotationMode"
)

// Guess is one scored submission. Distance is 0 iff the guess is the target.
type Guess struct {
	Name      string `json:"name"`      // raw text as typed
	Distance  int    `json:"distance"`  // meters
	Direction int    `json:"direction"` // compass bucket, multiple of 45
}

// Status is the coarse state of a session.
type Status string

const (
	StatusPlaying Status = "playing"
	StatusWon     Status = "won"
	StatusLost    Status = "lost"
)

// Ended reports whether the status is terminal.
func (s Status) Ended() bool { return s == StatusWon || s == StatusLost }

// Record is the persisted form of one day's progress.
// Nil mode flags mean "not chosen yet": seed from the user's defaults.
type Record struct {
	Guesses       []Guess `json:"guesses"`
	HideImageMode *bool   `json:"hideImageMode,omitempty"`
	RotationMode  *bool   `json:"rotationMode,omitempty"`
}

// SessionStore persists Records keyed strictly by day identifier.
//
//go:generate mockgen -package=mocks -destination=mocks/mock_session_store.go github.com/robalobadob/worldle/internal/game SessionStore
type SessionStore interface {
	// Load returns the stored record for dayID, or nil if there is none.
	// Corrupt records are reported as nil, never as an error.
	Load(ctx context.Context, dayID string) (*Record, error)

	// Save replaces the record for dayID.
	Save(ctx context.Context, dayID string, rec Record) error

	// LoadMode returns the stored value of flag for dayID, or def when absent.
	LoadMode(ctx context.Context, dayID, flag string, def bool) bool
}

// Modes are the display preferences that seed a fresh day.
type Modes struct {
	HideImage bool
	Rotation  bool
}

// Session is the live state for one day.
type Session struct {
	DayID         string
	Target        countries.Country
	Selection     daily.Selection
	Guesses       []Guess
	HideImageMode bool
	RotationMode  bool
}
