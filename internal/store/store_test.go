package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/robalobadob/worldle/internal/game"
)

// BackendTestSuite runs the same session behaviour against every backend.
type BackendTestSuite struct {
	suite.Suite
	newBackend func() Backend
	backend    Backend
	sessions   *Sessions
	ctx        context.Context
}

func (s *BackendTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.backend = s.newBackend()
	s.sessions = NewSessions(s.backend)
}

func (s *BackendTestSuite) TearDownTest() {
	s.Require().NoError(s.backend.Close())
}

func TestMemoryBackend(t *testing.T) {
	suite.Run(t, &BackendTestSuite{newBackend: NewMemory})
}

func TestSQLiteBackend(t *testing.T) {
	suite.Run(t, &BackendTestSuite{newBackend: func() Backend {
		b, err := OpenSQLite(filepath.Join(t.TempDir(), "data", "worldle.db"))
		if err != nil {
			t.Fatalf("open sqlite: %v", err)
		}
		return b
	}})
}

func TestRedisBackend(t *testing.T) {
	mr := miniredis.RunT(t)
	suite.Run(t, &BackendTestSuite{newBackend: func() Backend {
		mr.FlushAll()
		b, err := NewRedis(&RedisConfig{RedisClient: redis.NewClient(&redis.Options{Addr: mr.Addr()})})
		if err != nil {
			t.Fatalf("open redis: %v", err)
		}
		return b
	}})
}

func boolPtr(b bool) *bool { return &b }

func (s *BackendTestSuite) TestLoadMissing() {
	rec, err := s.sessions.Load(s.ctx, "2022-03-01")
	s.Require().NoError(err)
	s.Nil(rec)
}

func (s *BackendTestSuite) TestSaveAndLoad() {
	in := game.Record{
		Guesses: []game.Guess{
			{Name: "France", Distance: 1200000, Direction: 45},
			{Name: "spain", Distance: 0, Direction: 0},
		},
		HideImageMode: boolPtr(true),
		RotationMode:  boolPtr(false),
	}
	s.Require().NoError(s.sessions.Save(s.ctx, "2022-03-01", in))

	out, err := s.sessions.Load(s.ctx, "2022-03-01")
	s.Require().NoError(err)
	s.Require().NotNil(out)
	s.Equal(in.Guesses, out.Guesses)
	s.Require().NotNil(out.HideImageMode)
	s.True(*out.HideImageMode)
	s.Require().NotNil(out.RotationMode)
	s.False(*out.RotationMode)
}

func (s *BackendTestSuite) TestSaveOverwrites() {
	s.Require().NoError(s.sessions.Save(s.ctx, "2022-03-01", game.Record{
		Guesses: []game.Guess{{Name: "a", Distance: 10, Direction: 90}},
	}))
	s.Require().NoError(s.sessions.Save(s.ctx, "2022-03-01", game.Record{
		Guesses: []game.Guess{{Name: "a", Distance: 10, Direction: 90}, {Name: "b", Distance: 5, Direction: 180}},
	}))

	out, err := s.sessions.Load(s.ctx, "2022-03-01")
	s.Require().NoError(err)
	s.Len(out.Guesses, 2)
}

func (s *BackendTestSuite) TestDaysAreIsolated() {
	s.Require().NoError(s.sessions.Save(s.ctx, "2022-03-01", game.Record{
		Guesses:      []game.Guess{{Name: "a", Distance: 10}},
		RotationMode: boolPtr(false),
	}))

	out, err := s.sessions.Load(s.ctx, "2022-03-02")
	s.Require().NoError(err)
	s.Nil(out)
	s.True(s.sessions.LoadMode(s.ctx, "2022-03-02", game.FlagRotation, true))
	s.False(s.sessions.LoadMode(s.ctx, "2022-03-01", game.FlagRotation, true))
}

func (s *BackendTestSuite) TestProfilesAreIsolated() {
	alice := s.sessions.ForProfile("alice")
	bob := s.sessions.ForProfile("bob")
	s.Equal("alice", alice.Profile())

	s.Require().NoError(alice.Save(s.ctx, "2022-03-01", game.Record{
		Guesses: []game.Guess{{Name: "a", Distance: 10}},
	}))

	out, err := bob.Load(s.ctx, "2022-03-01")
	s.Require().NoError(err)
	s.Nil(out)

	out, err = alice.Load(s.ctx, "2022-03-01")
	s.Require().NoError(err)
	s.Len(out.Guesses, 1)

	s.Equal(DefaultProfile, s.sessions.ForProfile("").Profile())
}

func (s *BackendTestSuite) TestCorruptRecordIsAbsent() {
	s.Require().NoError(s.backend.Put(s.ctx, s.sessions.key("2022-03-01"), []byte("{not json")))

	out, err := s.sessions.Load(s.ctx, "2022-03-01")
	s.Require().NoError(err)
	s.Nil(out)
	s.True(s.sessions.LoadMode(s.ctx, "2022-03-01", game.FlagHideImage, true))
}

func (s *BackendTestSuite) TestLoadModeDefaults() {
	s.False(s.sessions.LoadMode(s.ctx, "2022-03-01", game.FlagHideImage, false))
	s.True(s.sessions.LoadMode(s.ctx, "2022-03-01", game.FlagHideImage, true))

	// A record without flags still falls back to the default.
	s.Require().NoError(s.sessions.Save(s.ctx, "2022-03-01", game.Record{}))
	s.True(s.sessions.LoadMode(s.ctx, "2022-03-01", game.FlagHideImage, true))

	s.Require().NoError(s.sessions.Save(s.ctx, "2022-03-01", game.Record{HideImageMode: boolPtr(false)}))
	s.False(s.sessions.LoadMode(s.ctx, "2022-03-01", game.FlagHideImage, true))
	s.True(s.sessions.LoadMode(s.ctx, "2022-03-01", "unknownFlag", true))
}

func TestRedisTTL(t *testing.T) {
	mr := miniredis.RunT(t)
	b, err := NewRedis(&RedisConfig{
		RedisClient: redis.NewClient(&redis.Options{Addr: mr.Addr()}),
		TTL:         time.Hour,
	})
	if err != nil {
		t.Fatalf("open redis: %v", err)
	}
	defer b.Close()

	ctx := context.Background()
	if err := b.Put(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("put: %v", err)
	}
	if ttl := mr.TTL("k"); ttl != time.Hour {
		t.Fatalf("expected 1h ttl, got %v", ttl)
	}

	mr.FastForward(2 * time.Hour)
	if _, err := b.Get(ctx, "k"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound after expiry, got %v", err)
	}
}

func TestNewRedisValidation(t *testing.T) {
	if _, err := NewRedis(nil); err == nil {
		t.Fatal("expected error for nil config")
	}
	if _, err := NewRedis(&RedisConfig{}); err == nil {
		t.Fatal("expected error for nil client")
	}
}

func TestSQLitePrune(t *testing.T) {
	b, err := OpenSQLite(filepath.Join(t.TempDir(), "worldle.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer b.Close()

	ctx := context.Background()
	now := time.Date(2022, 3, 10, 12, 0, 0, 0, time.UTC)

	b.now = func() time.Time { return now.AddDate(0, 0, -5) }
	if err := b.Put(ctx, "old", []byte("{}")); err != nil {
		t.Fatalf("put old: %v", err)
	}
	b.now = func() time.Time { return now }
	if err := b.Put(ctx, "new", []byte("{}")); err != nil {
		t.Fatalf("put new: %v", err)
	}

	n, err := b.Prune(ctx, 48*time.Hour)
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 pruned row, got %d", n)
	}
	if _, err := b.Get(ctx, "old"); err != ErrNotFound {
		t.Fatalf("expected old row gone, got %v", err)
	}
	if _, err := b.Get(ctx, "new"); err != nil {
		t.Fatalf("expected new row kept, got %v", err)
	}
}

func TestSQLiteMigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "worldle.db")
	b, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	if err := b.Put(context.Background(), "k", []byte("v")); err != nil {
		t.Fatalf("put: %v", err)
	}
	b.Close()

	b, err = OpenSQLite(path)
	if err != nil {
		t.Fatalf("second open: %v", err)
	}
	defer b.Close()
	v, err := b.Get(context.Background(), "k")
	if err != nil || string(v) != "v" {
		t.Fatalf("expected value to survive reopen, got %q, %v", v, err)
	}
}

func TestOpenUnknownKind(t *testing.T) {
	if _, err := Open(context.Background(), Options{Kind: "cassandra"}); err == nil {
		t.Fatal("expected error for unknown backend")
	}
	b, err := Open(context.Background(), Options{})
	if err != nil {
		t.Fatalf("default backend: %v", err)
	}
	_ = b.Close()
}
