// internal/store/store.go
//
// Per-day session persistence.
//
// Layers:
//   - Backend: raw key/value bytes (memory, SQLite or Redis).
//   - Sessions: game.SessionStore on top of a Backend. Encodes game.Record as
//     JSON under "session:<profile>:<dayID>" and treats unreadable records as
//     absent so a bad row can never break a day's game.
//
// A Sessions value only ever touches the key of the day it is asked about;
// records of other days are never read.

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/worldle/internal/game"
)

// ErrNotFound is returned by a Backend for a missing key.
var ErrNotFound = errors.New("not found")

// Backend stores opaque values by key.
// Implementations may be backed by memory (this package), SQLite, Redis, etc.
type Backend interface {
	// Get returns the value for key or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put creates or replaces the value for key.
	Put(ctx context.Context, key string, value []byte) error

	// Close releases backend resources.
	Close() error
}

// DefaultProfile namespaces records when no player profile is known.
const DefaultProfile = "local"

// Sessions implements game.SessionStore over a Backend.
type Sessions struct {
	backend Backend
	profile string
}

var _ game.SessionStore = (*Sessions)(nil)

// NewSessions returns a session store for the default profile.
func NewSessions(b Backend) *Sessions {
	return &Sessions{backend: b, profile: DefaultProfile}
}

// ForProfile returns a view of the same backend scoped to one profile.
func (s *Sessions) ForProfile(id string) *Sessions {
	if id == "" {
		id = DefaultProfile
	}
	return &Sessions{backend: s.backend, profile: id}
}

// Profile reports the profile this view is scoped to.
func (s *Sessions) Profile() string { return s.profile }

func (s *Sessions) key(dayID string) string {
	return "session:" + s.profile + ":" + dayID
}

// Load returns the record for dayID, or nil if missing or corrupt.
// Only backend failures are returned as errors.
func (s *Sessions) Load(ctx context.Context, dayID string) (*game.Record, error) {
	data, err := s.backend.Get(ctx, s.key(dayID))
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", dayID, err)
	}

	var rec game.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		log.Warn().Err(err).
			Str("profile", s.profile).
			Str("day", dayID).
			Msg("corrupt session record ignored")
		return nil, nil
	}
	return &rec, nil
}

// Save replaces the record for dayID.
func (s *Sessions) Save(ctx context.Context, dayID string, rec game.Record) error {
	if rec.Guesses == nil {
		rec.Guesses = []game.Guess{}
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.backend.Put(ctx, s.key(dayID), data); err != nil {
		return fmt.Errorf("save %s: %w", dayID, err)
	}
	return nil
}

// LoadMode returns the stored value of flag for dayID, or def when the day
// has no record or the flag was never set.
func (s *Sessions) LoadMode(ctx context.Context, dayID, flag string, def bool) bool {
	rec, err := s.Load(ctx, dayID)
	if err != nil {
		log.Warn().Err(err).Str("day", dayID).Str("flag", flag).Msg("load mode; using default")
		return def
	}
	if rec == nil {
		return def
	}
	var v *bool
	switch flag {
	case game.FlagHideImage:
		v = rec.HideImageMode
	case game.FlagRotation:
		v = rec.RotationMode
	}
	if v == nil {
		return def
	}
	return *v
}
