package game

import "math"

// ground is the local terrain geometry under a point.
type ground struct {
	height  float64
	normal  Vec2 // points out of the ground, not normalized
	tangent Vec2 // unit, pointing to +x
	angle   float64
}

func probeGround(t Terrain, x float64) ground {
	slope := (t.Get(x+GroundProbe/2) - t.Get(x-GroundProbe/2)) / GroundProbe
	return ground{
		height:  t.Get(x),
		normal:  V(slope, -GroundProbe),
		tangent: V(GroundProbe, slope).Normalize(),
		angle:   -math.Atan(slope / GroundProbe),
	}
}

// facing is the unit vector from a player's centre toward its feet.
func facing(angle float64) Vec2 {
	return V(math.Sin(angle), math.Cos(angle))
}

// StepPlayer advances one player by dtMs against the terrain and reports
// whether the player jumped during the step.
func StepPlayer(dtMs float64, p *Player, t Terrain) (jumped bool) {
	dt := dtMs / 1000

	p.Vel.Y += Gravity * dt
	p.Pos = p.Pos.Add(p.Vel.Scale(dt))

	g := probeGround(t, p.Pos.X)
	through := p.Pos.Y - g.height

	if through >= 0 {
		p.HasJumped = false
		p.Pos.Y = g.height
		if p.Vel.Dot(g.normal) < 0 {
			p.Vel = g.tangent.Scale(p.Vel.Dot(g.tangent))
		}
	}

	nearGround := through >= -JumpSlack && !p.HasJumped
	switch {
	case nearGround && p.Input.Jump:
		p.HasJumped = true
		impulse := g.normal.Normalize().Scale(JumpImpulse).Sub(g.tangent.Scale(JumpBrake))
		p.Vel = p.Vel.Add(impulse)
		jumped = true
	case nearGround:
		p.Angle += (g.angle - p.Angle) * AngleSmoothing
		p.AngleVel = 0
	default:
		rotateInAir(dt, p)
	}

	accelerateRightLeft(dt, p, g, through)

	p.TouchesGround = through >= 0
	return jumped
}

// rotateInAir steers the angle toward the held tilt with a proportional
// controller. Rotation is about the body centre, so the feet move.
func rotateInAir(dt float64, p *Player) {
	target := -p.Input.steer() * AirTilt
	p.AngleVel = clamp(AngleGain*(target-p.Angle), -MaxAngleVel, MaxAngleVel)

	before := facing(p.Angle)
	p.Angle += p.AngleVel * dt
	after := facing(p.Angle)

	p.Pos = p.Pos.Add(after.Sub(before).Scale(PlayerHeight / 2))
}

// accelerateRightLeft pushes the player along the ground when touching it
// and horizontally when a unit or more above it, blending in between.
func accelerateRightLeft(dt float64, p *Player, g ground, through float64) {
	sign := p.Input.steer()
	if sign == 0 {
		return
	}

	w := clamp(through, -1, 0) + 1
	dir := g.tangent.Scale(w).Add(V(1-w, 0))

	p.Vel.X = approach(p.Vel.X, sign*MaxThrottle*dir.X, LateralAccel*math.Abs(dir.X)*dt)
	p.Vel.Y = approach(p.Vel.Y, sign*MaxThrottle*dir.Y, LateralAccel*math.Abs(dir.Y)*dt)
}

// approach moves v toward target by at most step. A v already past target
// in the direction of travel is left as is.
func approach(v, target, step float64) float64 {
	switch {
	case target > 0 && v < target:
		return math.Min(v+step, target)
	case target < 0 && v > target:
		return math.Max(v-step, target)
	default:
		return v
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
