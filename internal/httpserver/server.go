// internal/httpserver/server.go
//
// HTTP server wiring for the Worldle backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health", "/countries".
//   - Today's game (profile cookie): mounted under /today.
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so cookies work).
//   - Every /today request opens the day's game.Machine afresh from the
//     store, with the day identifier read once from the clock.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"

	"github.com/robalobadob/worldle/internal/countries"
	"github.com/robalobadob/worldle/internal/daily"
	"github.com/robalobadob/worldle/internal/game"
	"github.com/robalobadob/worldle/internal/store"
)

// Options configures a Server.
type Options struct {
	Catalog       *countries.Catalog
	Sessions      *store.Sessions
	Salt          string
	TokenSecret   string
	Defaults      game.Modes
	DefaultLocale string
	ClientOrigin  string
	SecureCookies bool
	Clock         daily.Clock
}

// Server bundles router, catalog and session store.
type Server struct {
	r       *chi.Mux
	opts    Options
	matcher language.Matcher
	locales []string // matcher order; index 0 is the default
	locks   *profileLocks
}

// New constructs a Server, installs middleware, and registers routes.
func New(opts Options) *Server {
	if opts.Clock == nil {
		opts.Clock = daily.SystemClock{}
	}
	if opts.DefaultLocale == "" {
		opts.DefaultLocale = countries.DefaultLocale
	}
	s := &Server{r: chi.NewRouter(), opts: opts, locks: newProfileLocks()}
	s.matcher, s.locales = newLocaleMatcher(opts.Catalog.Locales(), opts.DefaultLocale)

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(s.cors)                          // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"service":"worldle-go","endpoints":["/health","/countries","GET /today","POST /today/guess","GET /today/share"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	s.r.Get("/countries", s.handleCountries)

	// Today's game: every visitor gets a profile cookie.
	s.mountToday(s.r.With(s.withProfile))

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found")
	})

	return s
}

// Start serves HTTP on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for the configured client origin.
func (s *Server) cors(next http.Handler) http.Handler {
	origin := s.opts.ClientOrigin
	if origin == "" {
		origin = "http://localhost:5173"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Accept-Language")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ------------------------------ countries ----------------------------------

type countriesRes struct {
	Locale string   `json:"locale"`
	Names  []string `json:"names"`
}

// handleCountries lists display names for autocompletion.
func (s *Server) handleCountries(w http.ResponseWriter, r *http.Request) {
	locale := s.locale(r, "")
	writeJSON(w, http.StatusOK, countriesRes{Locale: locale, Names: s.opts.Catalog.Names(locale)})
}

// ------------------------------- helpers -----------------------------------

// newLocaleMatcher builds a matcher over the catalog locales with def first,
// so unmatched preferences resolve to def.
func newLocaleMatcher(locales []string, def string) (language.Matcher, []string) {
	ordered := []string{def}
	for _, l := range locales {
		if l != def {
			ordered = append(ordered, l)
		}
	}
	tags := make([]language.Tag, len(ordered))
	for i, l := range ordered {
		tags[i] = language.Make(l)
	}
	return language.NewMatcher(tags), ordered
}

// locale picks the catalog locale for a request: explicit value, then the
// ?locale= query parameter, then Accept-Language, then the default.
func (s *Server) locale(r *http.Request, explicit string) string {
	if explicit == "" {
		explicit = r.URL.Query().Get("locale")
	}
	var prefs []language.Tag
	if explicit != "" {
		tag, err := language.Parse(explicit)
		if err != nil {
			return s.locales[0]
		}
		prefs = []language.Tag{tag}
	} else {
		prefs, _, _ = language.ParseAcceptLanguage(r.Header.Get("Accept-Language"))
	}
	_, idx, conf := s.matcher.Match(prefs...)
	if conf == language.No {
		return s.locales[0]
	}
	return s.locales[idx]
}

// writeJSON encodes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("encode response")
	}
}

type errorRes struct {
	Error       string   `json:"error"`
	Message     string   `json:"message,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// writeError writes {"error": code}.
func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, errorRes{Error: code})
}
