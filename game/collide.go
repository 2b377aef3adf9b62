package game

// ResolvePair bounces two players off each other when they overlap and are
// closing in. Each velocity is reflected about the line between the two
// players in the frame moving with their mean velocity, so momentum along
// that line is kept. It reports whether a bounce happened.
func ResolvePair(a, b *Player) bool {
	diff := b.Pos.Sub(a.Pos)
	if diff.Len() >= CollisionDistance {
		return false
	}
	if a.Vel.Sub(b.Vel).Dot(diff) <= 0 {
		return false
	}

	n := diff.Normalize()
	mean := a.Vel.Add(b.Vel).Scale(0.5)
	a.Vel = mean.Add(a.Vel.Sub(mean).Reflect(n))
	b.Vel = mean.Add(b.Vel.Sub(mean).Reflect(n))
	return true
}

// resolveCollisions runs ResolvePair over every unordered pair of players
// still in the round and calls hit for each bounce.
func resolveCollisions(players []*Player, hit func(i, j int)) {
	for i := 0; i < len(players); i++ {
		if !players[i].InRound() {
			continue
		}
		for j := i + 1; j < len(players); j++ {
			if !players[j].InRound() {
				continue
			}
			if ResolvePair(players[i], players[j]) {
				hit(i, j)
			}
		}
	}
}
