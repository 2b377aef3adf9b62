package room

import (
	"slopes/game"
	"slopes/protocol"
)

type Conn interface {
	Send([]byte) error
	Close() error
}

// Join: issued once after hello parsed
type Join struct {
	Conn  Conn
	Name  string
	Reply chan<- JoinResult
}

type JoinResult struct {
	ClientID string
}

// Input: latest held actions for one player of the room
type Input struct {
	ClientID string
	Player   int
	Input    game.Input
}

// Restart: zero scores and start over
type Restart struct {
	ClientID string
}

// Leave: issued on disconnect
type Leave struct {
	ClientID string
}

// Snapshot: current state, answered from the room goroutine
type Snapshot struct {
	Reply chan<- protocol.State
}
