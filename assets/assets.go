package assets

import (
	"embed"
	"fmt"
	"log"
	"sync"

	"github.com/automoto/gridduel/shared/gridmap"
	"github.com/automoto/gridduel/shared/leveldata"
	"github.com/automoto/gridduel/shared/sim"
)

// GeneratedArena names the built-in lattice layout.
const GeneratedArena = "lattice"

var (
	//go:embed all:arenas
	arenaFS embed.FS

	arenaOnce  sync.Once
	arenas     map[string]*leveldata.Arena
	arenaNames []string
	arenaErr   error
)

func loadArenas() {
	arenaOnce.Do(func() {
		arenas, arenaNames, arenaErr = leveldata.LoadAllArenas(arenaFS, "arenas")
		if arenaErr != nil {
			log.Printf("[assets] %v", arenaErr)
		}
	})
}

// ArenaNames lists the selectable arenas, the generated lattice first.
func ArenaNames() []string {
	loadArenas()
	return append([]string{GeneratedArena}, arenaNames...)
}

// Arena returns the layout called name. The generated lattice is returned
// for GeneratedArena and the empty name.
func Arena(name string) (gridmap.Map, error) {
	if name == "" || name == GeneratedArena {
		return gridmap.Generate(), nil
	}
	loadArenas()
	if arenaErr != nil {
		return gridmap.Map{}, arenaErr
	}
	a, ok := arenas[name]
	if !ok {
		return gridmap.Map{}, fmt.Errorf("unknown arena %q", name)
	}
	return a.Map, nil
}

// SimForRoom picks the rules for a room. Rooms named after an embedded
// arena play on it; every other room plays on the lattice, so both peers in
// a room always agree.
func SimForRoom(room string) *sim.Sim {
	m, err := Arena(room)
	if err != nil {
		return sim.NewDefault()
	}
	return sim.New(m)
}
