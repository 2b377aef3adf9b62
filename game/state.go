package game

// Internal truth authoritative game state

// Terrain is the ground the simulation collides against.
// *terrain.HeightField satisfies it.
type Terrain interface {
	Get(x float64) float64
}

// NotDroppedOut marks a player still in the current round.
const NotDroppedOut = -1.0

type State struct {
	Tick       int
	Terrain    Terrain
	Players    []*Player
	CamFocus   Vec2
	ElapsedMs  float64
	IsGameOver bool
	Round      Round
}

// PlayerDef is the configuration a player joins a game with.
type PlayerDef struct {
	Name   string `json:"name" yaml:"name"`
	Keys   Keys   `json:"keys" yaml:"keys"`
	Accent string `json:"accent" yaml:"accent"`
	Avatar string `json:"avatar" yaml:"avatar"`
}

// Keys names the keyboard keys bound to a player's actions. The core
// never reads them; they are passed through to the input collaborator.
type Keys struct {
	Left  string `json:"left" yaml:"left"`
	Right string `json:"right" yaml:"right"`
	Jump  string `json:"jump" yaml:"jump"`
}

type Player struct {
	Def PlayerDef

	Pos      Vec2
	Vel      Vec2
	Angle    float64 // radians
	AngleVel float64 // radians/s, within ±MaxAngleVel

	TouchesGround bool
	HasJumped     bool

	Score        int
	DroppedOutMs float64 // elapsed time at elimination, NotDroppedOut while in

	Input      Input
	Controller Controller // optional, sampled into Input every step
}

// InRound reports whether the player has not been eliminated this round.
func (p *Player) InRound() bool {
	return p.DroppedOutMs < 0
}

// Center is the body centre, half a body height above the feet along the
// player's current orientation.
func (p *Player) Center() Vec2 {
	return p.Pos.Sub(facing(p.Angle).Scale(PlayerHeight / 2))
}

// NewPlayer places a player with the given definition at pos.
func NewPlayer(def PlayerDef, pos Vec2) *Player {
	return &Player{
		Def:          def,
		Pos:          pos,
		DroppedOutMs: NotDroppedOut,
	}
}

// NewState creates a game on the given terrain with one player per
// definition. Players start side by side resting on the terrain, the first
// definition furthest right at spawnX.
func NewState(t Terrain, defs []PlayerDef, spawnX float64) *State {
	s := &State{
		Terrain: t,
		Players: make([]*Player, 0, len(defs)),
	}
	for _, def := range defs {
		s.Players = append(s.Players, NewPlayer(def, Vec2{}))
	}
	s.CamFocus = Vec2{X: spawnX, Y: t.Get(spawnX)}
	Restart(s)
	return s
}
