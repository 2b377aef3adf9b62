package loop

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"slopes/game"
	"slopes/terrain"
)

func TestAdvanceCarriesRemainder(t *testing.T) {
	var acc Accumulator
	steps := 0
	count := func() { steps++ }

	assert.Equal(t, 0, acc.Advance(7*time.Millisecond, count))
	assert.Equal(t, 7*time.Millisecond, acc.Left())

	assert.Equal(t, 2, acc.Advance(13*time.Millisecond, count))
	assert.Zero(t, acc.Left())

	assert.Equal(t, 2, acc.Advance(25*time.Millisecond, count))
	assert.Equal(t, 5*time.Millisecond, acc.Left())

	assert.Equal(t, 4, steps)
}

func TestAdvanceCapsLongFrames(t *testing.T) {
	acc := Accumulator{MaxFrame: 250 * time.Millisecond}

	n := acc.Advance(5*time.Second, func() {})

	assert.Equal(t, 25, n)
	assert.Zero(t, acc.Left())
}

func TestAdvanceIgnoresNegativeDelta(t *testing.T) {
	acc := Accumulator{Step: 5 * time.Millisecond}
	acc.Advance(3*time.Millisecond, func() {})

	assert.Equal(t, 0, acc.Advance(-time.Second, func() {}))
	assert.Equal(t, 3*time.Millisecond, acc.Left())

	acc.Reset()
	assert.Zero(t, acc.Left())
}

func TestAdvanceStepCount_Property(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		var acc Accumulator
		deltas := rapid.SliceOfN(rapid.Int64Range(0, 100), 1, 50).Draw(t, "deltasMs")

		var total time.Duration
		steps := 0
		for _, ms := range deltas {
			d := time.Duration(ms) * time.Millisecond
			total += d
			steps += acc.Advance(d, func() {})
			if acc.Left() < 0 || acc.Left() >= TimeStep {
				t.Fatalf("carried time out of range: %v", acc.Left())
			}
		}
		if want := int(total / TimeStep); steps != want {
			t.Fatalf("ran %d steps over %v, want %d", steps, total, want)
		}
	})
}

func hills() *terrain.HeightField {
	h := terrain.New(300)
	h.SetAll(func(i int) float64 { return 4 * math.Sin(float64(i)/9) })
	h.SetSmooth(true)
	return h
}

func newGame() *game.State {
	s := game.NewState(hills(), []game.PlayerDef{{Name: "a"}, {Name: "b"}}, 150)
	s.Players[0].Input = game.Input{RotateRight: true, Jump: true}
	s.Players[1].Input = game.Input{RotateLeft: true}
	return s
}

func snapshot(s *game.State) []game.Player {
	out := make([]game.Player, len(s.Players))
	for i, p := range s.Players {
		out[i] = *p
	}
	return out
}

func TestFrameTimingDoesNotChangeTrajectory(t *testing.T) {
	fixed := newGame()
	var want [][]game.Player
	for i := 0; i < 450; i++ {
		game.Step(fixed)
		want = append(want, snapshot(fixed))
	}

	framed := newGame()
	var got [][]game.Player
	var acc Accumulator
	deltas := []time.Duration{7 * time.Millisecond, 13 * time.Millisecond, 25 * time.Millisecond}
	for i := 0; len(got) < len(want); i++ {
		acc.Advance(deltas[i%len(deltas)], func() {
			if len(got) == len(want) {
				return
			}
			game.Step(framed)
			got = append(got, snapshot(framed))
		})
	}

	require.Len(t, got, len(want))
	for i := range want {
		require.Equal(t, want[i], got[i], "step %d", i+1)
	}
	assert.Equal(t, fixed.CamFocus, framed.CamFocus)
	assert.Equal(t, fixed.Round, framed.Round)
}
