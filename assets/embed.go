// assets/embed.go
//
// Embedded defaults so the server runs with no files configured:
//   - regions.json: a small demo district grid (not real boundaries).
//   - locales/*.po: player-facing messages per language.

package assets

import "embed"

//go:embed regions.json locales/*.po
var FS embed.FS

// Regions returns the embedded demo district records.
func Regions() ([]byte, error) {
	return FS.ReadFile("regions.json")
}

// Locale returns the raw .po file for lang ("az", "en").
func Locale(lang string) ([]byte, error) {
	return FS.ReadFile("locales/" + lang + ".po")
}
