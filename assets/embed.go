// assets/embed.go
//
// Static data shipped inside the binary.
// countries.json is the reference catalog: one record per country with an
// ISO code, a representative point and display names per locale.

package assets

import (
	_ "embed"
)

//go:embed countries.json
var countriesJSON []byte

// CountriesJSON returns a copy of the embedded country catalog.
func CountriesJSON() []byte {
	out := make([]byte, len(countriesJSON))
	copy(out, countriesJSON)
	return out
}
