package protocol

type Welcome struct {
	ClientID   string       `json:"clientId"`
	Room       string       `json:"room"`
	TimeStepMs float64      `json:"timeStepMs"`
	Players    []PlayerInfo `json:"players"`
	Terrain    []float64    `json:"terrain"`
	Smooth     bool         `json:"smooth"`
}

type PlayerInfo struct {
	Name   string `json:"name"`
	Accent string `json:"accent"`
	Avatar string `json:"avatar,omitempty"`
	Left   string `json:"left,omitempty"`
	Right  string `json:"right,omitempty"`
	Jump   string `json:"jump,omitempty"`
}

type State struct {
	Tick       int              `json:"tick"`
	ElapsedMs  float64          `json:"elapsedMs"`
	CamX       float64          `json:"camX"`
	CamY       float64          `json:"camY"`
	Round      int              `json:"round"`
	Phase      string           `json:"phase"`
	GraceMs    float64          `json:"graceMs"`
	IsGameOver bool             `json:"isGameOver"`
	Players    []PlayerSnapshot `json:"players"`
}

type PlayerSnapshot struct {
	Index         int     `json:"index"`
	X             float64 `json:"x"`
	Y             float64 `json:"y"`
	A             float64 `json:"a"`
	TouchesGround bool    `json:"touchesGround"`
	Score         int     `json:"score"`
	DroppedOutMs  float64 `json:"droppedOutMs"` // -1 while still in the round
}

// Event mirrors a simulation event. Player and Other are -1 when unused.
type Event struct {
	Tick   int    `json:"tick"`
	Kind   string `json:"kind"`
	Player int    `json:"player"`
	Other  int    `json:"other"`
}

type Error struct {
	Msg string `json:"msg"`
}
