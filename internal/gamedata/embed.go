// Package gamedata provides the embedded tile palette and map definitions
// and the generic loader that reads them.
package gamedata

import "embed"

// dataFS holds tiles.json and maps.json.
//
//go:embed *.json
var dataFS embed.FS
