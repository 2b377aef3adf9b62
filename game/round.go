package game

import (
	"math"
	"slices"
)

type RoundPhase uint8

const (
	// PhasePlaying: two or more players are still in.
	PhasePlaying RoundPhase = iota
	// PhaseEliminating: one survivor left, scores awarded, grace running.
	PhaseEliminating
	// PhaseRoundOver: grace elapsed, the next step starts a new round.
	PhaseRoundOver
	// PhaseGameOver: someone reached MaxScore; waits for Restart.
	PhaseGameOver
)

func (p RoundPhase) String() string {
	switch p {
	case PhasePlaying:
		return "playing"
	case PhaseEliminating:
		return "eliminating"
	case PhaseRoundOver:
		return "roundOver"
	case PhaseGameOver:
		return "gameOver"
	default:
		return "unknown"
	}
}

type Round struct {
	Number  int
	Phase   RoundPhase
	GraceMs float64 // time spent with a sole survivor, counted after warm-up
}

// Restart zeroes scores and elapsed time and starts a fresh first round
// at the current camera focus.
func Restart(s *State) {
	for _, p := range s.Players {
		p.Score = 0
	}
	s.ElapsedMs = 0
	s.IsGameOver = false
	s.Round = Round{}
	startRound(s)
}

// startRound brings every player back in and lines them up behind the
// camera focus, best score in front.
func startRound(s *State) {
	s.Round.Number++
	s.Round.Phase = PhasePlaying
	s.Round.GraceMs = 0

	order := make([]int, len(s.Players))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return s.Players[b].Score - s.Players[a].Score
	})

	for k, i := range order {
		spawn(s.Players[i], s.Terrain, s.CamFocus.X-float64(k)*SpawnSpacing)
	}
}

func spawn(p *Player, t Terrain, x float64) {
	g := probeGround(t, x)
	p.Pos = V(x, g.height)
	p.Vel = Vec2{}
	p.Angle = g.angle
	p.AngleVel = 0
	p.HasJumped = false
	p.TouchesGround = true
	p.DroppedOutMs = NotDroppedOut
}

// outOfView reports whether pos has left the tolerance window around the
// camera focus.
func outOfView(pos, focus Vec2) bool {
	return math.Abs(pos.X-focus.X) > DropOutFraction*ViewportWidth/2 ||
		math.Abs(pos.Y-focus.Y) > DropOutFraction*ViewportHeight/2
}

func remaining(players []*Player) int {
	n := 0
	for _, p := range players {
		if p.InRound() {
			n++
		}
	}
	return n
}

// updateRound drives the round state machine for one step. It runs after
// physics and the camera update.
func updateRound(dtMs float64, s *State, emit func(Event)) {
	n := len(s.Players)

	switch s.Round.Phase {
	case PhasePlaying:
		if n < 2 {
			return
		}
		lead := LeadPlayer(s.Players)
		for i, p := range s.Players {
			if i == lead || !p.InRound() {
				continue
			}
			if outOfView(p.Pos, s.CamFocus) {
				p.DroppedOutMs = s.ElapsedMs
				emit(playerEvent(EventEliminated, i))
			}
		}
		if remaining(s.Players) > 1 {
			return
		}
		awardRound(s.Players)
		if !s.IsGameOver && leaderScore(s.Players) >= MaxScore(n) {
			s.IsGameOver = true
		}
		s.Round.Phase = PhaseEliminating
		s.Round.GraceMs = 0

	case PhaseEliminating:
		if s.ElapsedMs >= GraceWarmupMs {
			s.Round.GraceMs += dtMs
		}
		if s.Round.GraceMs < GracePeriodMs {
			return
		}
		emit(gameEvent(EventRoundOver))
		if s.IsGameOver {
			s.Round.Phase = PhaseGameOver
			emit(gameEvent(EventGameOver))
			return
		}
		s.Round.Phase = PhaseRoundOver

	case PhaseRoundOver:
		startRound(s)
		emit(gameEvent(EventNewRound))

	case PhaseGameOver:
	}
}

// awardRound ranks players by how long they lasted, survivors first, and
// gives the k-th ranked player n-k-1 points. Players eliminated in the same
// step keep their order.
func awardRound(players []*Player) {
	n := len(players)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	lasted := func(i int) float64 {
		if players[i].InRound() {
			return math.Inf(1)
		}
		return players[i].DroppedOutMs
	}
	slices.SortStableFunc(order, func(a, b int) int {
		switch la, lb := lasted(a), lasted(b); {
		case la > lb:
			return -1
		case la < lb:
			return 1
		default:
			return 0
		}
	})
	for rank, i := range order {
		players[i].Score += n - rank - 1
	}
}

func leaderScore(players []*Player) int {
	best := 0
	for _, p := range players {
		best = max(best, p.Score)
	}
	return best
}
