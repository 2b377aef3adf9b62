package game

import "math"

// CameraWeight is the smoothing weight of the camera for the given grace
// time. It starts just above CameraBaseWeight and explodes as the grace
// period runs, freezing the camera in place.
func CameraWeight(graceMs float64) float64 {
	return CameraBaseWeight + math.Pow(2, 10*graceMs/1000)
}

// UpdateCamera blends the focus toward the lead player's centre and returns
// the new focus.
func UpdateCamera(lead *Player, s *State) Vec2 {
	w := CameraWeight(s.Round.GraceMs)
	s.CamFocus = lead.Center().Scale(1 / w).Add(s.CamFocus.Scale((w - 1) / w))
	return s.CamFocus
}

// LeadPlayer returns the index of the player still in the round with the
// greatest x. When nobody is left, every player is considered. It returns
// -1 for a game without players.
func LeadPlayer(players []*Player) int {
	lead := -1
	for i, p := range players {
		if !p.InRound() {
			continue
		}
		if lead < 0 || p.Pos.X > players[lead].Pos.X {
			lead = i
		}
	}
	if lead >= 0 {
		return lead
	}
	for i, p := range players {
		if lead < 0 || p.Pos.X > players[lead].Pos.X {
			lead = i
		}
	}
	return lead
}
