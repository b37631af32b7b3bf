package game

import (
	"errors"
	"strings"
)

var (
	// ErrUnknownCountry matches any *UnknownCountryError via errors.Is.
	ErrUnknownCountry = errors.New("unknown country")

	// ErrGameEnded is returned for moves on a won or lost session.
	ErrGameEnded = errors.New("game finished")

	// ErrGameInProgress is returned when results are requested too early.
	ErrGameInProgress = errors.New("game still in progress")

	// ErrImageHidden blocks cancelling rotation while the image is hidden.
	ErrImageHidden = errors.New("image is hidden")
)

// UnknownCountryError reports input that resolved to no catalog entry.
// The attempt is not consumed.
type UnknownCountryError struct {
	Input       string
	Suggestions []string
}

func (e *UnknownCountryError) Error() string {
	msg := "unknown country: " + strings.TrimSpace(e.Input)
	if len(e.Suggestions) > 0 {
		msg += " (did you mean " + strings.Join(e.Suggestions, ", ") + "?)"
	}
	return msg
}

func (e *UnknownCountryError) Is(target error) bool { return target == ErrUnknownCountry }
