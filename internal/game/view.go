package game

import (
	"net/url"
	"slices"
	"strings"

	"github.com/robalobadob/worldle/internal/daily"
)

// Snapshot is what the UI may see of a session.
type Snapshot struct {
	DayID         string    `json:"dayId"`
	Status        Status    `json:"status"`
	MaxTries      int       `json:"maxTries"`
	Guesses       []Guess   `json:"guesses"`
	HideImageMode bool      `json:"hideImageMode"`
	RotationMode  bool      `json:"rotationMode"`
	ImageHidden   bool      `json:"imageHidden"`
	Rotation      *Rotation `json:"rotation,omitempty"`
	CanShowImage  bool      `json:"canShowImage"`
	CanCancelSpin bool      `json:"canCancelRotation"`
	Answer        *Answer   `json:"answer,omitempty"`
}

// Rotation is the transform applied to the outline while rotation is on.
type Rotation struct {
	Angle int     `json:"angle"`
	Scale float64 `json:"scale"`
}

// Answer reveals the target once the game has ended.
type Answer struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	MapsURL string `json:"mapsUrl"`
}

// Snapshot renders the session for locale. The target stays opaque while
// the game is in progress.
func (m *Machine) Snapshot(locale string) Snapshot {
	st := m.Status()
	s := m.session
	snap := Snapshot{
		DayID:         s.DayID,
		Status:        st,
		MaxTries:      MaxTries,
		Guesses:       slices.Clone(s.Guesses),
		HideImageMode: s.HideImageMode,
		RotationMode:  s.RotationMode,
		ImageHidden:   s.HideImageMode && !st.Ended(),
		CanShowImage:  s.HideImageMode && !st.Ended(),
		CanCancelSpin: s.RotationMode && !s.HideImageMode && !st.Ended(),
	}
	if s.RotationMode && !st.Ended() {
		snap.Rotation = rotationOf(s.Selection)
	}
	if st.Ended() {
		name := s.Target.Name(locale)
		snap.Answer = &Answer{
			Code:    s.Target.Code,
			Name:    name,
			MapsURL: mapsURL(name, s.Target.Code, locale),
		}
	}
	return snap
}

func rotationOf(sel daily.Selection) *Rotation {
	return &Rotation{Angle: sel.Angle, Scale: sel.Scale}
}

func mapsURL(name, code, locale string) string {
	q := url.Values{}
	q.Set("q", name+" "+strings.ToUpper(code))
	q.Set("hl", locale)
	return "https://www.google.com/maps?" + q.Encode()
}

// Result is the finalized day handed to a share renderer.
type Result struct {
	DayID         string  `json:"dayId"`
	Status        Status  `json:"status"`
	Guesses       []Guess `json:"guesses"`
	HideImageMode bool    `json:"hideImageMode"`
	RotationMode  bool    `json:"rotationMode"`
}

// Result returns the ordered guesses once the game has ended.
func (m *Machine) Result() (Result, error) {
	st := m.Status()
	if !st.Ended() {
		return Result{}, ErrGameInProgress
	}
	return Result{
		DayID:         m.session.DayID,
		Status:        st,
		Guesses:       slices.Clone(m.session.Guesses),
		HideImageMode: m.session.HideImageMode,
		RotationMode:  m.session.RotationMode,
	}, nil
}
