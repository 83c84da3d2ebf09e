// Package leveldata loads arena layouts from Tiled TMX files. It has no
// dependencies on ebitengine, donburi, or resolv so the relay can import it.
package leveldata

import "github.com/automoto/gridduel/shared/gridmap"

// Arena is a wall layout authored in Tiled.
type Arena struct {
	Name  string // file stem
	Title string // "title" map property, may be empty
	Map   gridmap.Map
}
