package game

type Action uint8

const (
	ActionRotateLeft Action = iota
	ActionRotateRight
	ActionJump
)

func (a Action) String() string {
	switch a {
	case ActionRotateLeft:
		return "rotateLeft"
	case ActionRotateRight:
		return "rotateRight"
	case ActionJump:
		return "jump"
	default:
		return "unknown"
	}
}

// Controller is sampled once per step. Signals are level-sensitive: an
// action counts as long as it is held.
type Controller interface {
	Pressed(a Action) bool
}

// Input is the set of held actions for one player.
type Input struct {
	RotateLeft  bool `json:"rotateLeft"`
	RotateRight bool `json:"rotateRight"`
	Jump        bool `json:"jump"`
}

func (in Input) Pressed(a Action) bool {
	switch a {
	case ActionRotateLeft:
		return in.RotateLeft
	case ActionRotateRight:
		return in.RotateRight
	case ActionJump:
		return in.Jump
	default:
		return false
	}
}

// Sample reads every action from c.
func Sample(c Controller) Input {
	return Input{
		RotateLeft:  c.Pressed(ActionRotateLeft),
		RotateRight: c.Pressed(ActionRotateRight),
		Jump:        c.Pressed(ActionJump),
	}
}

// steer is +1 for right, -1 for left, 0 when neither or both are held.
func (in Input) steer() float64 {
	switch {
	case in.RotateRight && !in.RotateLeft:
		return 1
	case in.RotateLeft && !in.RotateRight:
		return -1
	default:
		return 0
	}
}
