// internal/httpserver/profile.go
//
// Player profile identity.
// A profile is a random UUID carried in an HS256-signed token, delivered as
// an HttpOnly cookie (or an Authorization: Bearer header for non-browser
// clients). Session records are namespaced by profile so two devices never
// share a day's progress.

package httpserver

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	profileCookieName = "worldle_profile"
	profileTTL        = 365 * 24 * time.Hour
)

// ctxProfileKey is the context key type for the profile ID.
type ctxProfileKey struct{}

// profileID returns the profile attached by withProfile.
func profileID(ctx context.Context) string {
	id, _ := ctx.Value(ctxProfileKey{}).(string)
	return id
}

// withProfile attaches the caller's profile ID, issuing a new profile and
// cookie when the request carries no valid token.
func (s *Server) withProfile(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := s.parseProfileToken(bearerOrCookie(r))
		if id == "" {
			id = uuid.NewString()
			tok, exp, err := s.signProfileToken(id)
			if err != nil {
				log.Error().Err(err).Msg("sign profile token")
				writeError(w, http.StatusInternalServerError, "sign_failed")
				return
			}
			s.setProfileCookie(w, tok, exp)
			log.Debug().Str("profile", id).Msg("issued profile")
		}
		ctx := context.WithValue(r.Context(), ctxProfileKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// signProfileToken creates an HS256 token whose subject is the profile ID.
func (s *Server) signProfileToken(id string) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(profileTTL)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   id,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	ss, err := t.SignedString([]byte(s.opts.TokenSecret))
	return ss, exp, err
}

// parseProfileToken returns the profile ID in tok, or "" if tok is missing,
// expired, forged or does not carry a UUID subject.
func (s *Server) parseProfileToken(tok string) string {
	if tok == "" {
		return ""
	}
	claims := &jwt.RegisteredClaims{}
	t, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.opts.TokenSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !t.Valid {
		return ""
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return ""
	}
	return claims.Subject
}

// setProfileCookie writes the profile token cookie with appropriate security attributes.
func (s *Server) setProfileCookie(w http.ResponseWriter, token string, exp time.Time) {
	sameSite := http.SameSiteLaxMode
	if s.opts.SecureCookies {
		sameSite = http.SameSiteNoneMode // required for third-party contexts when Secure
	}
	http.SetCookie(w, &http.Cookie{
		Name:     profileCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.opts.SecureCookies,
		SameSite: sameSite,
		Expires:  exp,
	})
}

// bearerOrCookie extracts a bearer token from Authorization header or profile cookie.
func bearerOrCookie(r *http.Request) string {
	// Authorization: Bearer <token>
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(profileCookieName); err == nil {
		return c.Value
	}
	return ""
}

// profileLocks serializes read-then-write cycles per profile.
type profileLocks struct {
	mu    sync.Mutex
	locks map[string]*profileLock
}

type profileLock struct {
	mu   sync.Mutex
	refs int
}

func newProfileLocks() *profileLocks {
	return &profileLocks{locks: make(map[string]*profileLock)}
}

// lock blocks until id is free and returns the matching unlock.
func (p *profileLocks) lock(id string) func() {
	p.mu.Lock()
	l, ok := p.locks[id]
	if !ok {
		l = &profileLock{}
		p.locks[id] = l
	}
	l.refs++
	p.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		p.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(p.locks, id)
		}
		p.mu.Unlock()
	}
}
