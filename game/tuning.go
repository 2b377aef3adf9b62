package game

import "math"

// World units: one unit is one terrain sample. Times are milliseconds
// unless the name says otherwise.
const (
	TimeStepMs = 10.0

	PlayerWidth  = 1.0
	PlayerHeight = 1.5
	Gravity      = 10.0 // units/s²

	GroundProbe    = 1.0  // x distance used to measure the local slope
	JumpImpulse    = 5.0  // along the ground normal
	JumpBrake      = 0.25 // against the ground tangent
	JumpSlack      = 0.1  // jump still allowed this far above the surface
	AngleSmoothing = 0.2  // per-step blend toward the slope angle

	AirTilt      = 30 * math.Pi / 180
	AngleGain    = 10.0
	MaxAngleVel  = 10.0 // rad/s
	LateralAccel = 10.0 // units/s² per axis
	MaxThrottle  = 10.0 // units/s

	CollisionDistance = 0.7 * PlayerWidth

	ViewportWidth   = 20.0
	ViewportHeight  = 20.0
	DropOutFraction = 0.9

	GracePeriodMs    = 3000.0
	GraceWarmupMs    = 2000.0
	SpawnSpacing     = 1.3 * PlayerWidth
	CameraBaseWeight = 5.0

	MaxPlayers = 4
)

// MaxScore is the score that ends a game for the given number of players.
func MaxScore(players int) int {
	switch players {
	case 1:
		return 5
	case 2:
		return 6
	case 3:
		return 8
	default:
		return 10
	}
}
