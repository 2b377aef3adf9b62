// Package level loads the terrain and roster a game is played with.
package level

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"slopes/game"
	"slopes/terrain"
)

var (
	ErrInvalidSample = errors.New("level: terrain sample is not a finite number")
	ErrPlayerCount   = errors.New("level: player count out of range")
)

// DefaultSpawnX is where the first player starts unless a manifest says
// otherwise.
const DefaultSpawnX = 10.0

// Level is a terrain plus the players that race on it.
type Level struct {
	Name    string
	Terrain *terrain.HeightField
	Players []game.PlayerDef
	SpawnX  float64
}

// manifest is the on-disk form of a level. Terrain names a height field
// JSON file relative to the manifest.
type manifest struct {
	Name    string           `yaml:"name"`
	Terrain string           `yaml:"terrain"`
	Smooth  bool             `yaml:"smooth"`
	SpawnX  *float64         `yaml:"spawn_x"`
	Players []game.PlayerDef `yaml:"players"`
}

// Roster returns the four built-in player definitions.
func Roster() []game.PlayerDef {
	return []game.PlayerDef{
		{Name: "red", Accent: "red", Keys: game.Keys{Left: "KeyQ", Right: "KeyZ", Jump: "KeyS"}},
		{Name: "green", Accent: "green", Keys: game.Keys{Left: "KeyV", Right: "KeyN", Jump: "KeyG"}},
		{Name: "blue", Accent: "blue", Keys: game.Keys{Left: "ArrowLeft", Right: "ArrowRight", Jump: "ArrowUp"}},
		{Name: "yellow", Accent: "yellow", Keys: game.Keys{Left: "Numpad2", Right: "Numpad8", Jump: "Numpad4"}},
	}
}

// Default returns the built-in level: 500 samples of rolling hills, smoothed,
// with the first two roster players.
func Default() *Level {
	h := terrain.New(500)
	h.SetAll(func(i int) float64 {
		x := float64(i)
		return 4*math.Sin(x/23) + 1.5*math.Sin(x/7.3) + x/40
	})
	h.SetSmooth(true)
	return &Level{
		Name:    "hills",
		Terrain: h,
		Players: Roster()[:2],
		SpawnX:  DefaultSpawnX,
	}
}

// Load reads a level manifest and the height field it points at.
func Load(path string) (*Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading level %s: %w", path, err)
	}
	var m manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing level %s: %w", path, err)
	}
	if m.Terrain == "" {
		return nil, fmt.Errorf("level %s: no terrain file", path)
	}

	terrainPath := m.Terrain
	if !filepath.IsAbs(terrainPath) {
		terrainPath = filepath.Join(filepath.Dir(path), terrainPath)
	}
	raw, err := os.ReadFile(terrainPath)
	if err != nil {
		return nil, fmt.Errorf("reading terrain %s: %w", terrainPath, err)
	}
	h, err := terrain.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing terrain %s: %w", terrainPath, err)
	}
	h.SetSmooth(m.Smooth)

	l := &Level{
		Name:    m.Name,
		Terrain: h,
		Players: m.Players,
		SpawnX:  DefaultSpawnX,
	}
	if m.SpawnX != nil {
		l.SpawnX = *m.SpawnX
	}
	if len(l.Players) == 0 {
		l.Players = Roster()[:2]
	}
	if l.Name == "" {
		l.Name = filepath.Base(path)
	}
	if err := l.Validate(); err != nil {
		return nil, fmt.Errorf("level %s: %w", path, err)
	}
	return l, nil
}

// Validate checks the terrain holds only finite samples and the roster
// fits a game.
func (l *Level) Validate() error {
	if l.Terrain == nil || l.Terrain.Count() == 0 {
		return terrain.ErrEmptySamples
	}
	for i := 0; i < l.Terrain.Count(); i++ {
		if v := l.Terrain.At(i); math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("sample %d: %w", i, ErrInvalidSample)
		}
	}
	if n := len(l.Players); n < 1 || n > game.MaxPlayers {
		return fmt.Errorf("%d players: %w", n, ErrPlayerCount)
	}
	return nil
}

// NewGame starts a game on a private copy of the level's terrain.
func (l *Level) NewGame() *game.State {
	x := min(max(l.SpawnX, 0), float64(l.Terrain.Count()-1))
	return game.NewState(l.Terrain.Clone(), l.Players, x)
}
