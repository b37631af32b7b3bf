// internal/countries/countries.go
//
// Country catalog used by the daily puzzle.
//
// Responsibilities:
//   - Load the catalog from the embedded assets or from COUNTRIES_FILE.
//   - Index canonical name keys per locale (display names + aliases).
//   - Resolve a typed name to a catalog entry (exact canonical match only).
//   - Offer "did you mean" suggestions for names that do not resolve.
//
// Catalog order is significant: the daily selector picks entries by index,
// so reordering the data file changes which country falls on which day.

package countries

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/agnivade/levenshtein"

	"github.com/robalobadob/worldle/assets"
	"github.com/robalobadob/worldle/internal/geo"
)

// DefaultLocale is used whenever a name is missing for the requested locale.
const DefaultLocale = "en"

// ErrEmptyCatalog means no puzzle can be built. Fatal at startup.
var ErrEmptyCatalog = errors.New("countries: catalog is empty")

// Country is one immutable catalog record.
type Country struct {
	Code      string              `json:"code"`
	Latitude  float64             `json:"latitude"`
	Longitude float64             `json:"longitude"`
	Names     map[string]string   `json:"names"`
	Aliases   map[string][]string `json:"aliases,omitempty"`
}

// Name returns the display name in locale, falling back to DefaultLocale.
func (c Country) Name(locale string) string {
	if n, ok := c.Names[locale]; ok && n != "" {
		return n
	}
	if base, _, ok := strings.Cut(locale, "-"); ok {
		if n, ok := c.Names[base]; ok && n != "" {
			return n
		}
	}
	return c.Names[DefaultLocale]
}

// Point returns the country's representative location.
func (c Country) Point() geo.Point {
	return geo.Point{Lat: c.Latitude, Lon: c.Longitude}
}

// Catalog is an ordered, read-only list of countries with per-locale indexes.
type Catalog struct {
	list    []Country
	locales []string
	keys    map[string]map[string]int // locale → canonical key → index
}

// New validates list and builds the lookup indexes.
// Two entries may not share a code, nor a canonical key within one locale.
func New(list []Country) (*Catalog, error) {
	if len(list) == 0 {
		return nil, ErrEmptyCatalog
	}

	seenCodes := make(map[string]struct{}, len(list))
	localeSet := map[string]struct{}{DefaultLocale: {}}
	for i, c := range list {
		if c.Code == "" {
			return nil, fmt.Errorf("countries: entry %d has no code", i)
		}
		if c.Names[DefaultLocale] == "" {
			return nil, fmt.Errorf("countries: %s has no %q name", c.Code, DefaultLocale)
		}
		if _, dup := seenCodes[c.Code]; dup {
			return nil, fmt.Errorf("countries: duplicate code %s", c.Code)
		}
		seenCodes[c.Code] = struct{}{}
		for l := range c.Names {
			localeSet[l] = struct{}{}
		}
		for l := range c.Aliases {
			localeSet[l] = struct{}{}
		}
	}

	cat := &Catalog{
		list: append([]Country(nil), list...),
		keys: make(map[string]map[string]int, len(localeSet)),
	}
	for l := range localeSet {
		cat.locales = append(cat.locales, l)
	}
	sort.Strings(cat.locales)

	for _, l := range cat.locales {
		idx := make(map[string]int, len(list))
		for i, c := range cat.list {
			names := append([]string{c.Name(l)}, c.Aliases[l]...)
			for _, n := range names {
				k := Normalize(n)
				if k == "" {
					continue
				}
				if j, dup := idx[k]; dup && j != i {
					return nil, fmt.Errorf("countries: %q (%s) collides with %s in locale %s",
						n, c.Code, cat.list[j].Code, l)
				}
				idx[k] = i
			}
		}
		cat.keys[l] = idx
	}
	return cat, nil
}

// Parse decodes a JSON array of countries into a Catalog.
func Parse(data []byte) (*Catalog, error) {
	var list []Country
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("countries: decode: %w", err)
	}
	return New(list)
}

// Load reads a catalog from path, or the embedded catalog when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Embedded()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("countries: read %s: %w", path, err)
	}
	return Parse(data)
}

var (
	embeddedOnce sync.Once
	embedded     *Catalog
	embeddedErr  error
)

// Embedded returns the catalog bundled with the binary. Parsed once.
func Embedded() (*Catalog, error) {
	embeddedOnce.Do(func() {
		embedded, embeddedErr = Parse(assets.CountriesJSON())
	})
	return embedded, embeddedErr
}

// Len reports the number of countries.
func (c *Catalog) Len() int { return len(c.list) }

// At returns the i-th country in catalog order.
func (c *Catalog) At(i int) Country { return c.list[i] }

// All returns a copy of the catalog in order.
func (c *Catalog) All() []Country { return append([]Country(nil), c.list...) }

// Locales lists every locale with at least one name or alias, sorted.
func (c *Catalog) Locales() []string { return append([]string(nil), c.locales...) }

// ByCode looks a country up by ISO code (case-insensitive).
func (c *Catalog) ByCode(code string) (Country, bool) {
	for _, x := range c.list {
		if strings.EqualFold(x.Code, code) {
			return x, true
		}
	}
	return Country{}, false
}

// Names returns every display name in locale, sorted, for autocompletion.
func (c *Catalog) Names(locale string) []string {
	out := make([]string, 0, len(c.list))
	for _, x := range c.list {
		out = append(out, x.Name(locale))
	}
	sort.Strings(out)
	return out
}

// index picks the key index for locale: exact, then base language, then default.
func (c *Catalog) index(locale string) map[string]int {
	if idx, ok := c.keys[locale]; ok {
		return idx
	}
	if base, _, ok := strings.Cut(locale, "-"); ok {
		if idx, ok := c.keys[base]; ok {
			return idx
		}
	}
	return c.keys[DefaultLocale]
}

// Find resolves text to a country using the canonical key in locale.
// Matching is exact on the key; no substring or fuzzy matching.
func (c *Catalog) Find(text, locale string) (Country, bool) {
	k := Normalize(text)
	if k == "" {
		return Country{}, false
	}
	i, ok := c.index(locale)[k]
	if !ok {
		return Country{}, false
	}
	return c.list[i], true
}

// Suggest returns up to max display names close to text in locale,
// nearest first. Used only to decorate an unknown-country notice.
func (c *Catalog) Suggest(text, locale string, max int) []string {
	k := Normalize(text)
	if len(k) < 3 || max <= 0 {
		return nil
	}

	type cand struct {
		idx  int
		dist int
	}
	best := map[int]int{}
	for key, i := range c.index(locale) {
		d := levenshtein.ComputeDistance(k, key)
		if d > suggestLimit(len(key)) {
			continue
		}
		if prev, ok := best[i]; !ok || d < prev {
			best[i] = d
		}
	}

	cands := make([]cand, 0, len(best))
	for i, d := range best {
		cands = append(cands, cand{idx: i, dist: d})
	}
	sort.Slice(cands, func(a, b int) bool {
		if cands[a].dist == cands[b].dist {
			return cands[a].idx < cands[b].idx
		}
		return cands[a].dist < cands[b].dist
	})

	out := make([]string, 0, max)
	for _, cd := range cands {
		out = append(out, c.list[cd.idx].Name(locale))
		if len(out) == max {
			break
		}
	}
	return out
}

// suggestLimit scales the tolerated edit distance with the key length.
func suggestLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}
