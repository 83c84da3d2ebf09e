package leveldata

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/automoto/gridduel/shared/gridmap"
	"github.com/lafriks/go-tiled"
)

// WallLayer is the tile layer whose non-empty tiles become wall cells.
const WallLayer = "walls"

// LoadArena parses a TMX file into an arena. It takes an fs.FS so callers can
// pass embed.FS or os.DirFS. The map must be exactly gridmap.Size tiles square.
func LoadArena(fsys fs.FS, tmxPath string) (*Arena, error) {
	levelMap, err := tiled.LoadFile(tmxPath, tiled.WithFileSystem(fsys))
	if err != nil {
		return nil, fmt.Errorf("load TMX %s: %w", tmxPath, err)
	}
	if levelMap.Width != gridmap.Size || levelMap.Height != gridmap.Size {
		return nil, fmt.Errorf("arena %s is %dx%d, want %dx%d",
			tmxPath, levelMap.Width, levelMap.Height, gridmap.Size, gridmap.Size)
	}

	arena := &Arena{
		Name:  strings.TrimSuffix(filepath.Base(tmxPath), ".tmx"),
		Title: levelMap.Properties.GetString("title"),
	}

	found := false
	for _, layer := range levelMap.Layers {
		if layer.Name != WallLayer {
			continue
		}
		found = true
		for row := 0; row < levelMap.Height; row++ {
			for x := 0; x < levelMap.Width; x++ {
				tile := layer.Tiles[row*levelMap.Width+x]
				if tile.IsNil() {
					continue
				}
				// Tiled rows grow downward, grid rows grow upward
				arena.Map.SetCell(x, gridmap.Size-1-row, gridmap.Wall)
			}
		}
		break
	}
	if !found {
		return nil, fmt.Errorf("arena %s has no %q layer", tmxPath, WallLayer)
	}

	return arena, nil
}

// LoadAllArenas discovers all .tmx files in dir within fsys and returns them
// keyed by stem name plus the sorted list of names.
func LoadAllArenas(fsys fs.FS, dir string) (map[string]*Arena, []string, error) {
	pattern := dir + "/*.tmx"
	matches, err := fs.Glob(fsys, pattern)
	if err != nil {
		return nil, nil, fmt.Errorf("glob %s: %w", pattern, err)
	}
	if len(matches) == 0 {
		return nil, nil, fmt.Errorf("no .tmx files found in %s", dir)
	}

	arenas := make(map[string]*Arena, len(matches))
	names := make([]string, 0, len(matches))

	for _, path := range matches {
		arena, err := LoadArena(fsys, path)
		if err != nil {
			return nil, nil, fmt.Errorf("load %s: %w", path, err)
		}
		arenas[arena.Name] = arena
		names = append(names, arena.Name)
	}

	sort.Strings(names)
	return arenas, names, nil
}
