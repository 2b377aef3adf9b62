package game

// Step advances the game by one fixed time step of TimeStepMs and returns
// the events that happened during it.
func Step(s *State) []Event {
	var events []Event
	emit := func(e Event) {
		events = append(events, e)
	}

	s.Tick++
	s.ElapsedMs += TimeStepMs

	for i, p := range s.Players {
		if p.Controller != nil {
			p.Input = Sample(p.Controller)
		}
		if !p.InRound() {
			continue
		}
		wasGrounded := p.TouchesGround
		if StepPlayer(TimeStepMs, p, s.Terrain) {
			emit(playerEvent(EventJump, i))
		}
		if p.TouchesGround && !wasGrounded {
			emit(playerEvent(EventLand, i))
		}
	}

	resolveCollisions(s.Players, func(i, j int) {
		emit(Event{Kind: EventCollision, Player: i, Other: j})
	})

	if lead := LeadPlayer(s.Players); lead >= 0 {
		UpdateCamera(s.Players[lead], s)
	}

	updateRound(TimeStepMs, s, emit)
	return events
}
