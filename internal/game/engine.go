// internal/game/engine.go
//
// Game state machine for one player's daily session.
// Responsibilities:
//   - Open the session for a day: select the target, restore stored progress,
//     seed display modes from the player's defaults.
//   - Apply guesses through the Evaluator and persist before committing.
//   - Derive playing → won/lost; refuse every move once ended.
//   - One-way display toggles (show the image, cancel rotation).
//
// Notes:
//   - A Machine is owned by a single caller; it is not safe for concurrent use.
//   - The target is only exposed through Snapshot once the game has ended.
package game

import (
	"context"
	"fmt"
	"slices"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/worldle/internal/countries"
	"github.com/robalobadob/worldle/internal/daily"
	"github.com/robalobadob/worldle/internal/geo"
)

// Config wires a Machine to its collaborators.
type Config struct {
	Catalog  *countries.Catalog
	Store    SessionStore
	Salt     string
	Defaults Modes
}

// Machine owns the Session for one day identifier.
type Machine struct {
	store   SessionStore
	eval    *Evaluator
	session Session
}

// Open builds the session for dayID. The target is recomputed from dayID;
// any stored guesses and mode flags are restored on top of it.
// Store failures degrade to a fresh session; only an empty catalog is fatal.
func Open(ctx context.Context, cfg Config, dayID string) (*Machine, error) {
	if cfg.Catalog == nil {
		return nil, countries.ErrEmptyCatalog
	}
	sel, err := daily.Select(dayID, cfg.Catalog.Len(), cfg.Salt)
	if err != nil {
		return nil, fmt.Errorf("select puzzle: %w", err)
	}

	m := &Machine{
		store: cfg.Store,
		eval:  NewEvaluator(cfg.Catalog),
		session: Session{
			DayID:     dayID,
			Target:    cfg.Catalog.At(sel.Index),
			Selection: sel,
			Guesses:   []Guess{},
		},
	}

	rec, err := cfg.Store.Load(ctx, dayID)
	if err != nil {
		log.Warn().Err(err).Str("day", dayID).Msg("load session; starting fresh")
		rec = nil
	}
	if rec != nil {
		m.session.Guesses = restoreGuesses(dayID, rec.Guesses)
	}
	m.session.HideImageMode = cfg.Store.LoadMode(ctx, dayID, FlagHideImage, cfg.Defaults.HideImage)
	m.session.RotationMode = cfg.Store.LoadMode(ctx, dayID, FlagRotation, cfg.Defaults.Rotation)
	return m, nil
}

// restoreGuesses keeps a stored guess list only if every entry is well formed,
// and cuts it at the first winning guess or at MaxTries.
func restoreGuesses(dayID string, stored []Guess) []Guess {
	out := make([]Guess, 0, len(stored))
	for _, g := range stored {
		if g.Distance < 0 || !geo.ValidBucket(g.Direction) {
			log.Warn().Str("day", dayID).Msg("discarding malformed stored guesses")
			return []Guess{}
		}
		out = append(out, g)
		if g.Distance == 0 || len(out) == MaxTries {
			break
		}
	}
	return out
}

// Status derives the current state from the guess list.
func (m *Machine) Status() Status {
	return deriveStatus(m.session.Guesses)
}

func deriveStatus(gs []Guess) Status {
	if n := len(gs); n > 0 && gs[n-1].Distance == 0 {
		return StatusWon
	}
	if len(gs) >= MaxTries {
		return StatusLost
	}
	return StatusPlaying
}

// DayID returns the day this machine serves.
func (m *Machine) DayID() string { return m.session.DayID }

// Guesses returns a copy of the guesses so far, in order.
func (m *Machine) Guesses() []Guess { return slices.Clone(m.session.Guesses) }

// Submit evaluates raw in locale and, if it names a country, records it.
//
// Unknown names return an *UnknownCountryError and consume no attempt.
// A terminal session returns ErrGameEnded and is left untouched.
// The record is saved before the guess is committed in memory, so a failed
// save leaves the session exactly as it was.
func (m *Machine) Submit(ctx context.Context, raw, locale string) (Guess, Status, error) {
	if st := m.Status(); st.Ended() {
		return Guess{}, st, ErrGameEnded
	}

	g, err := m.eval.Evaluate(raw, locale, m.session.Target)
	if err != nil {
		return Guess{}, StatusPlaying, err
	}

	next := append(slices.Clone(m.session.Guesses), g)
	if err := m.store.Save(ctx, m.session.DayID, m.record(next)); err != nil {
		return Guess{}, StatusPlaying, fmt.Errorf("save session: %w", err)
	}
	m.session.Guesses = next

	st := m.Status()
	log.Debug().
		Str("day", m.session.DayID).
		Int("attempt", len(next)).
		Int("distance", g.Distance).
		Str("status", string(st)).
		Msg("guess recorded")
	return g, st, nil
}

// DisableHideImage reveals the country image for the rest of the day.
func (m *Machine) DisableHideImage(ctx context.Context) error {
	if m.Status().Ended() {
		return ErrGameEnded
	}
	if !m.session.HideImageMode {
		return nil
	}
	return m.setModes(ctx, false, m.session.RotationMode)
}

// DisableRotation straightens the country image for the rest of the day.
// Only offered while the image is visible.
func (m *Machine) DisableRotation(ctx context.Context) error {
	if m.Status().Ended() {
		return ErrGameEnded
	}
	if !m.session.RotationMode {
		return nil
	}
	if m.session.HideImageMode {
		return ErrImageHidden
	}
	return m.setModes(ctx, m.session.HideImageMode, false)
}

func (m *Machine) setModes(ctx context.Context, hide, rotate bool) error {
	prevHide, prevRotate := m.session.HideImageMode, m.session.RotationMode
	m.session.HideImageMode, m.session.RotationMode = hide, rotate
	if err := m.store.Save(ctx, m.session.DayID, m.record(m.session.Guesses)); err != nil {
		m.session.HideImageMode, m.session.RotationMode = prevHide, prevRotate
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (m *Machine) record(gs []Guess) Record {
	hide, rotate := m.session.HideImageMode, m.session.RotationMode
	return Record{Guesses: gs, HideImageMode: &hide, RotationMode: &rotate}
}
