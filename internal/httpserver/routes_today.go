// internal/httpserver/routes_today.go
//
// HTTP routes for today's puzzle.
// Exposes under /today:
//   - GET  /today                      → session snapshot (answer only once ended)
//   - POST /today/guess                → submit a guess
//   - POST /today/mode/{flag}/off      → show the image / stop the rotation
//   - GET  /today/share                → finalized guesses for the share card
//
// Progress is stored per profile and per day; the target is recomputed from
// the day identifier on every request.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/worldle/internal/daily"
	"github.com/robalobadob/worldle/internal/game"
)

// mountToday registers all /today routes.
func (s *Server) mountToday(r chi.Router) {
	r.Route("/today", func(r chi.Router) {
		r.Get("/", s.handleToday)
		r.Post("/guess", s.handleGuess)
		r.Post("/mode/{flag}/off", s.handleModeOff)
		r.Get("/share", s.handleShare)
	})
}

// openToday opens today's machine for the caller's profile.
// The caller must hold the profile lock.
func (s *Server) openToday(r *http.Request) (*game.Machine, error) {
	day := daily.CurrentDayID(s.opts.Clock)
	return game.Open(r.Context(), game.Config{
		Catalog:  s.opts.Catalog,
		Store:    s.opts.Sessions.ForProfile(profileID(r.Context())),
		Salt:     s.opts.Salt,
		Defaults: s.opts.Defaults,
	}, day)
}

// withMachine locks the profile, opens today's machine and runs fn.
func (s *Server) withMachine(w http.ResponseWriter, r *http.Request, fn func(m *game.Machine)) {
	unlock := s.locks.lock(profileID(r.Context()))
	defer unlock()

	m, err := s.openToday(r)
	if err != nil {
		log.Error().Err(err).Msg("open today")
		writeError(w, http.StatusInternalServerError, "unavailable")
		return
	}
	fn(m)
}

// -----------------------------------------------------------------------------
// GET /today

func (s *Server) handleToday(w http.ResponseWriter, r *http.Request) {
	locale := s.locale(r, "")
	s.withMachine(w, r, func(m *game.Machine) {
		writeJSON(w, http.StatusOK, m.Snapshot(locale))
	})
}

// -----------------------------------------------------------------------------
// POST /today/guess

// guessReq is the request payload for /today/guess.
type guessReq struct {
	Guess  string `json:"guess"`
	Locale string `json:"locale"`
}

// guessRes is the response payload for /today/guess.
type guessRes struct {
	Guess    game.Guess    `json:"guess"`
	Status   game.Status   `json:"status"`
	Snapshot game.Snapshot `json:"snapshot"`
}

// handleGuess applies one guess.
//   - 422 unknown_country: nothing recorded, attempt not consumed.
//   - 409 game_finished:  the day is already won or lost.
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	locale := s.locale(r, req.Locale)

	s.withMachine(w, r, func(m *game.Machine) {
		g, st, err := m.Submit(r.Context(), req.Guess, locale)
		var unknown *game.UnknownCountryError
		switch {
		case errors.As(err, &unknown):
			writeJSON(w, http.StatusUnprocessableEntity, errorRes{
				Error:       "unknown_country",
				Message:     unknown.Error(),
				Suggestions: unknown.Suggestions,
			})
			return
		case errors.Is(err, game.ErrGameEnded):
			writeError(w, http.StatusConflict, "game_finished")
			return
		case err != nil:
			log.Error().Err(err).Str("day", m.DayID()).Msg("submit guess")
			writeError(w, http.StatusInternalServerError, "save_failed")
			return
		}

		if st.Ended() {
			log.Info().
				Str("day", m.DayID()).
				Str("status", string(st)).
				Int("guesses", len(m.Guesses())).
				Msg("game finished")
		}
		writeJSON(w, http.StatusOK, guessRes{Guess: g, Status: st, Snapshot: m.Snapshot(locale)})
	})
}

// -----------------------------------------------------------------------------
// POST /today/mode/{flag}/off

func (s *Server) handleModeOff(w http.ResponseWriter, r *http.Request) {
	flag := chi.URLParam(r, "flag")
	locale := s.locale(r, "")

	s.withMachine(w, r, func(m *game.Machine) {
		var err error
		switch flag {
		case "hide-image":
			err = m.DisableHideImage(r.Context())
		case "rotation":
			err = m.DisableRotation(r.Context())
		default:
			writeError(w, http.StatusNotFound, "unknown_mode")
			return
		}

		switch {
		case errors.Is(err, game.ErrGameEnded):
			writeError(w, http.StatusConflict, "game_finished")
		case errors.Is(err, game.ErrImageHidden):
			writeError(w, http.StatusConflict, "image_hidden")
		case err != nil:
			log.Error().Err(err).Str("flag", flag).Msg("disable mode")
			writeError(w, http.StatusInternalServerError, "save_failed")
		default:
			writeJSON(w, http.StatusOK, m.Snapshot(locale))
		}
	})
}

// -----------------------------------------------------------------------------
// GET /today/share

func (s *Server) handleShare(w http.ResponseWriter, r *http.Request) {
	s.withMachine(w, r, func(m *game.Machine) {
		res, err := m.Result()
		if errors.Is(err, game.ErrGameInProgress) {
			writeError(w, http.StatusConflict, "in_progress")
			return
		}
		writeJSON(w, http.StatusOK, res)
	})
}
