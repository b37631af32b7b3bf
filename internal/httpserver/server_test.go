package httpserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/robalobadob/worldle/internal/countries"
	"github.com/robalobadob/worldle/internal/daily"
	"github.com/robalobadob/worldle/internal/game"
	"github.com/robalobadob/worldle/internal/store"
)

const testSalt = "test-salt"

type ServerTestSuite struct {
	suite.Suite
	catalog *countries.Catalog
	srv     *Server
	today   time.Time
	target  countries.Country
	decoys  []countries.Country
	cookie  *http.Cookie
}

func TestServerTestSuite(t *testing.T) {
	suite.Run(t, new(ServerTestSuite))
}

func (s *ServerTestSuite) SetupTest() {
	cat, err := countries.Embedded()
	s.Require().NoError(err)
	s.catalog = cat
	s.today = time.Date(2022, 3, 14, 9, 0, 0, 0, time.UTC)
	s.srv = s.newServer(daily.FixedClock(s.today), game.Modes{})

	sel, err := daily.Select(daily.DateKey(s.today), cat.Len(), testSalt)
	s.Require().NoError(err)
	s.target = cat.At(sel.Index)
	s.decoys = nil
	for _, c := range cat.All() {
		if c.Code != s.target.Code {
			s.decoys = append(s.decoys, c)
		}
	}
	s.cookie = nil
}

func (s *ServerTestSuite) newServer(clock daily.Clock, defaults game.Modes) *Server {
	return New(Options{
		Catalog:     s.catalog,
		Sessions:    store.NewSessions(store.NewMemory()),
		Salt:        testSalt,
		TokenSecret: "test-secret",
		Defaults:    defaults,
		Clock:       clock,
	})
}

// do sends a request carrying the suite's profile cookie, capturing a new one if issued.
func (s *ServerTestSuite) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if s.cookie != nil {
		req.AddCookie(s.cookie)
	}
	rec := httptest.NewRecorder()
	s.srv.Router().ServeHTTP(rec, req)
	for _, c := range rec.Result().Cookies() {
		if c.Name == profileCookieName {
			s.cookie = c
		}
	}
	return rec
}

func (s *ServerTestSuite) guess(name string) *httptest.ResponseRecorder {
	b, err := json.Marshal(guessReq{Guess: name, Locale: "en"})
	s.Require().NoError(err)
	return s.do(http.MethodPost, "/today/guess", string(b))
}

func decode[T any](t require.TestingT, rec *httptest.ResponseRecorder) T {
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func (s *ServerTestSuite) TestHealth() {
	rec := s.do(http.MethodGet, "/health", "")
	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"ok":true}`, rec.Body.String())
}

func (s *ServerTestSuite) TestTodayIssuesProfileAndHidesTarget() {
	rec := s.do(http.MethodGet, "/today", "")
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Require().NotNil(s.cookie)
	s.True(s.cookie.HttpOnly)

	snap := decode[game.Snapshot](s.T(), rec)
	s.Equal("2022-03-14", snap.DayID)
	s.Equal(game.StatusPlaying, snap.Status)
	s.Equal(game.MaxTries, snap.MaxTries)
	s.Empty(snap.Guesses)
	s.Nil(snap.Answer)
	s.NotContains(rec.Body.String(), s.target.Code)
}

func (s *ServerTestSuite) TestWrongThenRightGuess() {
	rec := s.guess(s.decoys[0].Name("en"))
	s.Require().Equal(http.StatusOK, rec.Code)
	res := decode[guessRes](s.T(), rec)
	s.Equal(game.StatusPlaying, res.Status)
	s.Greater(res.Guess.Distance, 0)
	s.Nil(res.Snapshot.Answer)

	rec = s.guess(strings.ToUpper(s.target.Name("en")))
	s.Require().Equal(http.StatusOK, rec.Code)
	res = decode[guessRes](s.T(), rec)
	s.Equal(game.StatusWon, res.Status)
	s.Equal(0, res.Guess.Distance)
	s.Require().NotNil(res.Snapshot.Answer)
	s.Equal(s.target.Code, res.Snapshot.Answer.Code)
	s.Len(res.Snapshot.Guesses, 2)

	rec = s.guess(s.decoys[1].Name("en"))
	s.Equal(http.StatusConflict, rec.Code)

	rec = s.do(http.MethodGet, "/today/share", "")
	s.Require().Equal(http.StatusOK, rec.Code)
	share := decode[game.Result](s.T(), rec)
	s.Equal("2022-03-14", share.DayID)
	s.Len(share.Guesses, 2)
}

func (s *ServerTestSuite) TestUnknownCountry() {
	rec := s.guess("Atlantis")
	s.Equal(http.StatusUnprocessableEntity, rec.Code)
	body := decode[errorRes](s.T(), rec)
	s.Equal("unknown_country", body.Error)

	rec = s.do(http.MethodGet, "/today", "")
	snap := decode[game.Snapshot](s.T(), rec)
	s.Empty(snap.Guesses)
}

func (s *ServerTestSuite) TestLossAfterSixGuesses() {
	for i := 0; i < game.MaxTries; i++ {
		rec := s.guess(s.decoys[i].Name("en"))
		s.Require().Equal(http.StatusOK, rec.Code)
	}
	snap := decode[game.Snapshot](s.T(), s.do(http.MethodGet, "/today", ""))
	s.Equal(game.StatusLost, snap.Status)
	s.Require().NotNil(snap.Answer)
	s.Equal(s.target.Code, snap.Answer.Code)

	s.Equal(http.StatusConflict, s.guess(s.target.Name("en")).Code)
}

func (s *ServerTestSuite) TestProfilesDoNotShareProgress() {
	s.Require().Equal(http.StatusOK, s.guess(s.decoys[0].Name("en")).Code)
	first := s.cookie

	s.cookie = nil
	snap := decode[game.Snapshot](s.T(), s.do(http.MethodGet, "/today", ""))
	s.Empty(snap.Guesses)
	s.NotEqual(first.Value, s.cookie.Value)

	s.cookie = first
	snap = decode[game.Snapshot](s.T(), s.do(http.MethodGet, "/today", ""))
	s.Len(snap.Guesses, 1)
}

func (s *ServerTestSuite) TestForgedTokenGetsFreshProfile() {
	s.cookie = &http.Cookie{Name: profileCookieName, Value: "not-a-token"}
	rec := s.do(http.MethodGet, "/today", "")
	s.Equal(http.StatusOK, rec.Code)
	s.NotEqual("not-a-token", s.cookie.Value)
	s.NotEmpty(s.srv.parseProfileToken(s.cookie.Value))
}

func (s *ServerTestSuite) TestBearerToken() {
	tok, _, err := s.srv.signProfileToken("4b6f0c1e-8d2a-4e7b-9c3f-2a1d5e6f7a8b")
	s.Require().NoError(err)

	req := httptest.NewRequest(http.MethodGet, "/today", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	s.srv.Router().ServeHTTP(rec, req)
	s.Equal(http.StatusOK, rec.Code)
	s.Empty(rec.Result().Cookies(), "a valid bearer token needs no new cookie")
}

func (s *ServerTestSuite) TestModeToggles() {
	s.srv = s.newServer(daily.FixedClock(s.today), game.Modes{HideImage: true, Rotation: true})

	snap := decode[game.Snapshot](s.T(), s.do(http.MethodGet, "/today", ""))
	s.True(snap.ImageHidden)
	s.Require().NotNil(snap.Rotation)

	s.Equal(http.StatusConflict, s.do(http.MethodPost, "/today/mode/rotation/off", "").Code)

	rec := s.do(http.MethodPost, "/today/mode/hide-image/off", "")
	s.Require().Equal(http.StatusOK, rec.Code)
	snap = decode[game.Snapshot](s.T(), rec)
	s.False(snap.ImageHidden)
	s.True(snap.CanCancelSpin)

	rec = s.do(http.MethodPost, "/today/mode/rotation/off", "")
	s.Require().Equal(http.StatusOK, rec.Code)
	snap = decode[game.Snapshot](s.T(), rec)
	s.Nil(snap.Rotation)

	s.Equal(http.StatusNotFound, s.do(http.MethodPost, "/today/mode/colour/off", "").Code)
}

func (s *ServerTestSuite) TestShareBeforeEnd() {
	s.Equal(http.StatusConflict, s.do(http.MethodGet, "/today/share", "").Code)
}

func (s *ServerTestSuite) TestBadJSON() {
	s.Equal(http.StatusBadRequest, s.do(http.MethodPost, "/today/guess", "{").Code)
}

func (s *ServerTestSuite) TestCountriesLocale() {
	req := httptest.NewRequest(http.MethodGet, "/countries", nil)
	req.Header.Set("Accept-Language", "fr-CA,fr;q=0.9,en;q=0.5")
	rec := httptest.NewRecorder()
	s.srv.Router().ServeHTTP(rec, req)
	s.Require().Equal(http.StatusOK, rec.Code)
	res := decode[countriesRes](s.T(), rec)
	s.Equal("fr", res.Locale)
	s.Contains(res.Names, "Allemagne")

	res = decode[countriesRes](s.T(), s.do(http.MethodGet, "/countries?locale=de", ""))
	s.Equal("en", res.Locale)

	res = decode[countriesRes](s.T(), s.do(http.MethodGet, "/countries?locale=es", ""))
	s.Equal("es", res.Locale)
	s.Contains(res.Names, "Alemania")
}

func TestDayRollover(t *testing.T) {
	cat, err := countries.Embedded()
	require.NoError(t, err)
	sessions := store.NewSessions(store.NewMemory())
	clock := &movableClock{now: time.Date(2022, 3, 14, 23, 0, 0, 0, time.UTC)}
	srv := New(Options{Catalog: cat, Sessions: sessions, Salt: testSalt, TokenSecret: "x", Clock: clock})

	sel, err := daily.Select("2022-03-14", cat.Len(), testSalt)
	require.NoError(t, err)
	wrong := cat.At((sel.Index + 1) % cat.Len())

	req := httptest.NewRequest(http.MethodPost, "/today/guess", strings.NewReader(`{"guess":"`+wrong.Name("en")+`"}`))
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	cookie := rec.Result().Cookies()[0]

	clock.now = clock.now.Add(2 * time.Hour)
	req = httptest.NewRequest(http.MethodGet, "/today", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	snap := decode[game.Snapshot](t, rec)
	assert.Equal(t, "2022-03-15", snap.DayID)
	assert.Empty(t, snap.Guesses)
}

type movableClock struct{ now time.Time }

func (c *movableClock) Now() time.Time { return c.now }

func TestProfileLocks(t *testing.T) {
	p := newProfileLocks()
	unlock := p.lock("a")
	done := make(chan struct{})
	go func() {
		defer close(done)
		p.lock("a")()
	}()

	select {
	case <-done:
		t.Fatal("second lock acquired while first was held")
	case <-time.After(20 * time.Millisecond):
	}
	unlock()
	<-done

	p.mu.Lock()
	defer p.mu.Unlock()
	assert.Empty(t, p.locks)
}
