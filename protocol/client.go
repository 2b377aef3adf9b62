package protocol

//input structs coming in from the client.

type Hello struct {
	V    int    `json:"v"`              // version
	Name string `json:"name,omitempty"` // optional name
}

// Input carries the held actions of one player of the room. A renderer
// bridging a shared keyboard sends one per player.
type Input struct {
	Player      int  `json:"player"`
	RotateLeft  bool `json:"rotateLeft"`
	RotateRight bool `json:"rotateRight"`
	Jump        bool `json:"jump"`
}

// Restart asks the room to reset scores and start over.
type Restart struct{}
