package game

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"slopes/terrain"
)

// terrainFunc adapts a height function to Terrain.
type terrainFunc func(x float64) float64

func (f terrainFunc) Get(x float64) float64 { return f(x) }

func flatAt(h float64) Terrain {
	return terrainFunc(func(float64) float64 { return h })
}

// airborne puts the player far above a flat floor.
func airborne() (*Player, Terrain) {
	p := NewPlayer(PlayerDef{}, V(10, -1000))
	return p, flatAt(0)
}

func TestStepPlayerFallsUnderGravity(t *testing.T) {
	p, ground := airborne()

	StepPlayer(TimeStepMs, p, ground)

	assert.InDelta(t, 0.1, p.Vel.Y, 1e-12)
	assert.InDelta(t, -1000+0.001, p.Pos.Y, 1e-9)
	assert.False(t, p.TouchesGround)
}

func TestStepPlayerClampsToGround(t *testing.T) {
	hills := terrain.New(100)
	hills.SetAll(func(i int) float64 { return 3 * math.Sin(float64(i)/7) })
	hills.SetSmooth(true)

	p := NewPlayer(PlayerDef{}, V(40.3, hills.Get(40.3)+0.5))
	p.Vel = V(2, 4)

	StepPlayer(TimeStepMs, p, hills)

	assert.Equal(t, hills.Get(p.Pos.X), p.Pos.Y)
	assert.True(t, p.TouchesGround)
	assert.False(t, p.HasJumped)
}

func TestStepPlayerNeverTunnels_Property(t *testing.T) {
	hills := terrain.New(200)
	hills.SetAll(func(i int) float64 { return 5*math.Sin(float64(i)/11) + 2*math.Cos(float64(i)/3) })

	rapid.Check(t, func(t *rapid.T) {
		hills.SetSmooth(rapid.Bool().Draw(t, "smooth"))
		x := rapid.Float64Range(1, 198).Draw(t, "x")
		depth := rapid.Float64Range(0, 5).Draw(t, "depth")
		vel := V(
			rapid.Float64Range(-20, 20).Draw(t, "vx"),
			rapid.Float64Range(-5, 50).Draw(t, "vy"),
		)

		p := NewPlayer(PlayerDef{}, V(x, hills.Get(x)+depth))
		p.Vel = vel
		StepPlayer(TimeStepMs, p, hills)

		if p.Pos.Y > hills.Get(p.Pos.X) {
			t.Fatalf("player below ground: y=%v ground=%v", p.Pos.Y, hills.Get(p.Pos.X))
		}
	})
}

func TestStepPlayerTangentizesVelocity(t *testing.T) {
	p := NewPlayer(PlayerDef{}, V(10, 0))
	p.Vel = V(3, 2)

	StepPlayer(TimeStepMs, p, flatAt(0))

	assertVec(t, V(3, 0), p.Vel)
	assert.True(t, p.TouchesGround)
}

func TestStepPlayerSlidesAlongSlope(t *testing.T) {
	// y grows with x: the ground falls away to the right.
	slope := terrainFunc(func(x float64) float64 { return x })
	p := NewPlayer(PlayerDef{}, V(10, 10))

	StepPlayer(TimeStepMs, p, slope)

	tangent := V(1, 1).Normalize()
	assert.InDelta(t, 0, p.Vel.Dot(V(1, -1)), 1e-12, "velocity must lie along the slope")
	assert.Greater(t, p.Vel.Dot(tangent), 0.0)
	assert.InDelta(t, -math.Pi/4*AngleSmoothing, p.Angle, 1e-12)
}

func TestStepPlayerJump(t *testing.T) {
	p := NewPlayer(PlayerDef{}, V(10, 0))
	p.Input.Jump = true

	jumped := StepPlayer(TimeStepMs, p, flatAt(0))
	require.True(t, jumped)
	assert.True(t, p.HasJumped)
	assertVec(t, V(-JumpBrake, -JumpImpulse), p.Vel)

	// Holding jump does not jump again while still rising.
	jumped = StepPlayer(TimeStepMs, p, flatAt(0))
	assert.False(t, jumped)
	assert.InDelta(t, -JumpImpulse+Gravity*TimeStepMs/1000, p.Vel.Y, 1e-12)
}

func TestStepPlayerJumpsJustAboveGround(t *testing.T) {
	p := NewPlayer(PlayerDef{}, V(10, -0.05))
	p.Input.Jump = true

	jumped := StepPlayer(TimeStepMs, p, flatAt(0))

	assert.True(t, jumped)
	assert.False(t, p.TouchesGround)
}

func TestStepPlayerNoJumpHighAboveGround(t *testing.T) {
	p := NewPlayer(PlayerDef{}, V(10, -0.5))
	p.Input.Jump = true

	assert.False(t, StepPlayer(TimeStepMs, p, flatAt(0)))
}

func TestAirTiltConverges(t *testing.T) {
	p, ground := airborne()
	p.Input.RotateLeft = true
	for i := 0; i < 300; i++ {
		StepPlayer(TimeStepMs, p, ground)
	}
	assert.InDelta(t, AirTilt, p.Angle, 1e-6)

	p.Input = Input{RotateRight: true}
	for i := 0; i < 300; i++ {
		StepPlayer(TimeStepMs, p, ground)
	}
	assert.InDelta(t, -AirTilt, p.Angle, 1e-6)

	p.Input = Input{}
	for i := 0; i < 300; i++ {
		StepPlayer(TimeStepMs, p, ground)
	}
	assert.InDelta(t, 0, p.Angle, 1e-6)
}

// A player who rolls off a crest never jumped but still steers in the air.
func TestAirTiltAppliesWithoutJump(t *testing.T) {
	p := NewPlayer(PlayerDef{}, V(10, -5))
	p.Vel = V(3, 0)
	p.Input.RotateRight = true
	require.False(t, p.HasJumped)

	StepPlayer(TimeStepMs, p, flatAt(0))

	assert.False(t, p.HasJumped)
	assert.False(t, p.TouchesGround)
	assert.Less(t, p.Angle, 0.0)
	assert.InDelta(t, -AngleGain*AirTilt, p.AngleVel, 1e-12)
}

func TestAirRotationKeepsCenterFixed(t *testing.T) {
	p, ground := airborne()
	p.Input.RotateLeft = true

	want := p.Pos.Add(V(0, Gravity*TimeStepMs/1000*TimeStepMs/1000)).Sub(facing(p.Angle).Scale(PlayerHeight / 2))
	StepPlayer(TimeStepMs, p, ground)

	require.NotZero(t, p.Angle)
	assertVec(t, want, p.Center())
}

func TestAngleVelClamped_Property(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		p, ground := airborne()
		p.Angle = rapid.Float64Range(-4*math.Pi, 4*math.Pi).Draw(t, "angle")
		steps := rapid.IntRange(1, 200).Draw(t, "steps")

		for i := 0; i < steps; i++ {
			p.Input = Input{
				RotateLeft:  rapid.Bool().Draw(t, "left"),
				RotateRight: rapid.Bool().Draw(t, "right"),
			}
			StepPlayer(TimeStepMs, p, ground)
			if math.Abs(p.AngleVel) > MaxAngleVel {
				t.Fatalf("angleVel %v exceeds %v", p.AngleVel, MaxAngleVel)
			}
		}
	})
}

func TestLateralAccelerationCapped(t *testing.T) {
	p := NewPlayer(PlayerDef{}, V(10, 0))
	p.Input.RotateRight = true

	for i := 0; i < 300; i++ {
		StepPlayer(TimeStepMs, p, flatAt(0))
		require.LessOrEqual(t, p.Vel.X, MaxThrottle)
	}
	assert.Equal(t, MaxThrottle, p.Vel.X)
	assert.Zero(t, p.Vel.Y)
}

func TestLateralAccelerationDoesNotBrake(t *testing.T) {
	p := NewPlayer(PlayerDef{}, V(10, 0))
	p.Vel = V(15, 0)
	p.Input.RotateRight = true

	StepPlayer(TimeStepMs, p, flatAt(0))

	assert.Equal(t, 15.0, p.Vel.X)
}

func TestLateralAccelerationInAirIsHorizontal(t *testing.T) {
	p, ground := airborne()
	p.Input.RotateLeft = true

	StepPlayer(TimeStepMs, p, ground)

	assert.InDelta(t, -LateralAccel*TimeStepMs/1000, p.Vel.X, 1e-12)
	assert.InDelta(t, Gravity*TimeStepMs/1000, p.Vel.Y, 1e-12)
}

func TestBothDirectionsHeldCancel(t *testing.T) {
	p := NewPlayer(PlayerDef{}, V(10, 0))
	p.Input = Input{RotateLeft: true, RotateRight: true}

	StepPlayer(TimeStepMs, p, flatAt(0))

	assert.Zero(t, p.Vel.X)
}
