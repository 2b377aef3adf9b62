package game

type EventKind uint8

const (
	EventJump EventKind = iota
	EventLand
	EventCollision
	EventEliminated
	EventRoundOver
	EventGameOver
	EventNewRound
)

var eventNames = [...]string{
	EventJump:       "jump",
	EventLand:       "land",
	EventCollision:  "collision",
	EventEliminated: "eliminated",
	EventRoundOver:  "roundOver",
	EventGameOver:   "gameOver",
	EventNewRound:   "newRound",
}

func (k EventKind) String() string {
	if int(k) < len(eventNames) {
		return eventNames[k]
	}
	return "unknown"
}

// Event is a notification for audio and UI layers. Player and Other are
// indices into State.Players, -1 when the event concerns no player.
type Event struct {
	Kind   EventKind
	Player int
	Other  int
}

func playerEvent(k EventKind, i int) Event {
	return Event{Kind: k, Player: i, Other: -1}
}

func gameEvent(k EventKind) Event {
	return Event{Kind: k, Player: -1, Other: -1}
}
