package game

import (
	"github.com/robalobadob/worldle/internal/countries"
	"github.com/robalobadob/worldle/internal/geo"
)

const maxSuggestions = 3

// Resolver maps typed text to catalog entries.
type Resolver interface {
	Find(text, locale string) (countries.Country, bool)
	Suggest(text, locale string, max int) []string
}

// Evaluator scores raw guesses against a target. It holds no state.
type Evaluator struct {
	catalog Resolver
}

// NewEvaluator returns an Evaluator over catalog.
func NewEvaluator(catalog Resolver) *Evaluator {
	return &Evaluator{catalog: catalog}
}

// Evaluate resolves raw in locale and scores it against target.
//
// Distance is the great-circle distance in meters; Direction is the rhumb
// bearing from the guess to the target rounded to the nearest 45 degrees.
// A correct guess always scores Distance 0 and Direction 0.
func (e *Evaluator) Evaluate(raw, locale string, target countries.Country) (Guess, error) {
	c, ok := e.catalog.Find(raw, locale)
	if !ok {
		return Guess{}, &UnknownCountryError{
			Input:       raw,
			Suggestions: e.catalog.Suggest(raw, locale, maxSuggestions),
		}
	}

	g := Guess{Name: raw}
	if c.Code == target.Code {
		return g, nil
	}

	from, to := c.Point(), target.Point()
	g.Distance = geo.Distance(from, to)
	if g.Distance == 0 {
		// Distinct countries sharing a point must still not read as a win.
		g.Distance = 1
	}
	g.Direction = geo.Bucket(geo.RhumbBearing(from, to))
	return g, nil
}
