// internal/daily/daily.go
//
// Deterministic daily puzzle selection.
// Responsibilities:
//   - Derive the day identifier (YYYY-MM-DD, UTC) from a clock, once per use.
//   - Map a day identifier to the target index, a rotation angle and a zoom
//     scale, each drawn from its own HKDF stream so they are uncorrelated.
//
// Seed derivation (stable, documented; changing it reshuffles every day):
//
//	draw(day, purpose) = BigEndianUint64(HKDF-SHA256(secret=salt, salt=day, info="worldle/"+purpose)[:8])
//
// Nothing here reads the wall clock: identical inputs give identical
// outputs on every machine and every restart.
package daily

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"io"
	"time"

	"golang.org/x/crypto/hkdf"
)

// Scale range for the zoomed country outline.
const (
	MinScale = 1.0
	MaxScale = 1.5
)

const (
	purposeCountry = "country"
	purposeAngle   = "angle"
	purposeScale   = "scale"
)

// ErrEmptyCatalog is returned when there is nothing to pick from.
var ErrEmptyCatalog = errors.New("daily: cannot select from an empty catalog")

// Clock abstracts time.Now so "today" can be pinned in tests.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the real wall clock.
type SystemClock struct{}

// Now returns the current time.
func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always reports the same instant.
type FixedClock time.Time

// Now returns the pinned instant.
func (c FixedClock) Now() time.Time { return time.Time(c) }

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// CurrentDayID is the single accessor for today's day identifier.
func CurrentDayID(c Clock) string {
	return DateKey(c.Now())
}

// Selection is everything the puzzle derives from a day identifier.
type Selection struct {
	Index int     `json:"-"`
	Angle int     `json:"angle"` // degrees, [0, 360)
	Scale float64 `json:"scale"` // [MinScale, MaxScale)
}

// Select picks the target index plus the rotation parameters for dayID.
// n is the catalog size; salt is a deployment secret mixed into every draw.
func Select(dayID string, n int, salt string) (Selection, error) {
	if n <= 0 {
		return Selection{}, ErrEmptyCatalog
	}
	return Selection{
		Index: int(draw(dayID, salt, purposeCountry) % uint64(n)),
		Angle: int(draw(dayID, salt, purposeAngle) % 360),
		Scale: MinScale + (MaxScale-MinScale)*unitFloat(draw(dayID, salt, purposeScale)),
	}, nil
}

// draw returns 64 pseudo-random bits for (dayID, purpose).
func draw(dayID, salt, purpose string) uint64 {
	r := hkdf.New(sha256.New, []byte(salt), []byte(dayID), []byte("worldle/"+purpose))
	var b [8]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		// HKDF-SHA256 can emit 8160 bytes; 8 never fails.
		panic(err)
	}
	return binary.BigEndian.Uint64(b[:])
}

// unitFloat maps 64 random bits to [0, 1) using the top 53.
func unitFloat(v uint64) float64 {
	return float64(v>>11) / (1 << 53)
}
