package protocol

import (
	"encoding/json"
)

const Version = 1

const (
	MsgHello   = "hello"
	MsgInput   = "input"
	MsgRestart = "restart"
	MsgWelcome = "welcome"
	MsgState   = "state"
	MsgEvent   = "event"
	MsgError   = "error"
)

const (
	SimStepHz   = 100 // one game step every 10ms
	FrameHz     = 60
	BroadcastHz = 30
)

type Envelope struct {
	T string          `json:"t"`
	P json.RawMessage `json:"p"` // raw payload bytes
}
