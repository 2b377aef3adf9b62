package room

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"slopes/game"
	"slopes/level"
	"slopes/loop"
	"slopes/protocol"
	"slopes/terrain"
)

// DefaultIdleTimeout is how long a room with no clients keeps running.
const DefaultIdleTimeout = time.Minute

// ErrClosed is returned when a room stopped before it could take a command.
var ErrClosed = errors.New("room closed")

// Options tune how a room drives its game. Zero values pick the protocol
// defaults.
type Options struct {
	FrameHz     int
	BroadcastHz int
	MaxFrame    time.Duration
	IdleTimeout time.Duration
	Logger      *slog.Logger
	Metrics     *Metrics
}

// Room owns one game. All game state is touched only from the Run
// goroutine; other goroutines talk to it through Inbox.
type Room struct {
	Inbox          chan any
	frameHz        int
	broadcastEvery int
	field          *terrain.HeightField
	state          *game.State
	acc            loop.Accumulator
	clients        map[string]Conn
	numClients     atomic.Int32
	frames         int
	idleTimeout    time.Duration
	emptySince     time.Time
	quit           chan struct{}
	stopOnce       sync.Once
	log            *slog.Logger
	metrics        *Metrics

	Code string // room code (e.g. "ABC123")
	// OnEmpty runs on the room goroutine when the last client leaves or the
	// room sat empty for the idle timeout. The room stops right after.
	OnEmpty func(code string)
}

// New starts a fresh game of l on a private copy of its terrain.
func New(l *level.Level, opts Options) *Room {
	if opts.FrameHz <= 0 {
		opts.FrameHz = protocol.FrameHz
	}
	if opts.BroadcastHz <= 0 {
		opts.BroadcastHz = protocol.BroadcastHz
	}
	if opts.IdleTimeout <= 0 {
		opts.IdleTimeout = DefaultIdleTimeout
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	broadcastEvery := opts.FrameHz / opts.BroadcastHz
	if broadcastEvery <= 0 {
		broadcastEvery = 1
	}

	state := l.NewGame()
	field, _ := state.Terrain.(*terrain.HeightField)
	return &Room{
		Inbox:          make(chan any, 256),
		frameHz:        opts.FrameHz,
		broadcastEvery: broadcastEvery,
		field:          field,
		state:          state,
		acc:            loop.Accumulator{Step: loop.TimeStep, MaxFrame: opts.MaxFrame},
		clients:        make(map[string]Conn),
		idleTimeout:    opts.IdleTimeout,
		emptySince:     time.Now(),
		quit:           make(chan struct{}),
		log:            opts.Logger,
		metrics:        opts.Metrics,
	}
}

func (r *Room) Stop() {
	r.stopOnce.Do(func() { close(r.quit) })
}

// Done is closed once the room stops.
func (r *Room) Done() <-chan struct{} {
	return r.quit
}

// Post queues cmd for the room goroutine. It reports false if the room
// stopped first.
func (r *Room) Post(cmd any) bool {
	select {
	case <-r.quit:
		return false
	default:
	}
	select {
	case r.Inbox <- cmd:
		return true
	case <-r.quit:
		return false
	}
}

// Join attaches conn to the room and returns the new client id. It fails
// with ErrClosed if the room stops before the join is answered.
func (r *Room) Join(ctx context.Context, conn Conn, name string) (string, error) {
	reply := make(chan JoinResult, 1)
	if !r.Post(Join{Conn: conn, Name: name, Reply: reply}) {
		return "", ErrClosed
	}
	select {
	case res := <-reply:
		select {
		case <-r.quit:
			return "", ErrClosed
		default:
			return res.ClientID, nil
		}
	case <-r.quit:
		return "", ErrClosed
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// NumPlayers returns the current number of connected clients.
func (r *Room) NumPlayers() int {
	return int(r.numClients.Load())
}

// Terrain is the room's height field. It is never written while the room
// runs, so it may be read from any goroutine.
func (r *Room) Terrain() *terrain.HeightField {
	return r.field
}

func (r *Room) Run() {
	r.log = r.log.With("room", r.Code)
	r.log.Info("room started", "players", len(r.state.Players), "frameHz", r.frameHz)
	defer func() { r.log.Info("room stopped", "tick", r.state.Tick) }()

	ticker := time.NewTicker(time.Second / time.Duration(r.frameHz))
	defer ticker.Stop()
	last := time.Now()

	for {
		// A room that retired itself must not take another command.
		select {
		case <-r.quit:
			return
		default:
		}

		select {
		case <-r.quit:
			return
		case cmd := <-r.Inbox:
			r.handleCommand(cmd)
		case now := <-ticker.C:
			r.frame(now.Sub(last))
			last = now
			r.reapIfIdle(now)
		}
	}
}

func (r *Room) reapIfIdle(now time.Time) {
	if len(r.clients) == 0 && now.Sub(r.emptySince) >= r.idleTimeout {
		r.log.Info("closing idle room", "idle", now.Sub(r.emptySince))
		r.retire()
	}
}

// retire hands the room back to its owner and stops it. It runs on the room
// goroutine, so no join can slip in between.
func (r *Room) retire() {
	if r.OnEmpty != nil {
		r.OnEmpty(r.Code)
	}
	r.Stop()
}

// frame runs as many fixed steps as delta covers, forwards their events and
// broadcasts a snapshot every broadcastEvery frames.
func (r *Room) frame(delta time.Duration) {
	var events []protocol.Event
	n := r.acc.Advance(delta, func() {
		for _, e := range game.Step(r.state) {
			r.metrics.emitted(e)
			r.logEvent(e)
			events = append(events, eventMessage(r.state.Tick, e))
		}
	})
	r.metrics.stepped(n)

	for _, e := range events {
		r.broadcast(protocol.MsgEvent, e)
	}

	r.frames++
	if r.frames%r.broadcastEvery == 0 {
		r.broadcastState()
	}
}

func (r *Room) logEvent(e game.Event) {
	switch e.Kind {
	case game.EventEliminated:
		r.log.Debug("player eliminated", "player", e.Player, "elapsedMs", r.state.ElapsedMs)
	case game.EventRoundOver:
		r.log.Info("round over", "round", r.state.Round.Number, "scores", scores(r.state))
	case game.EventGameOver:
		r.log.Info("game over", "scores", scores(r.state))
	case game.EventNewRound:
		r.log.Info("new round", "round", r.state.Round.Number)
	}
}

func scores(s *game.State) []int {
	out := make([]int, len(s.Players))
	for i, p := range s.Players {
		out[i] = p.Score
	}
	return out
}

func (r *Room) handleCommand(cmd any) {
	switch c := cmd.(type) {
	case Join:
		id := uuid.NewString()
		r.clients[id] = c.Conn
		r.numClients.Add(1)
		r.metrics.clientDelta(1)
		r.log.Info("client joined", "client", id, "name", c.Name)
		r.sendTo(c.Conn, protocol.MsgWelcome, r.buildWelcome(id))
		r.sendTo(c.Conn, protocol.MsgState, r.buildSnapshot())
		c.Reply <- JoinResult{ClientID: id}
	case Input:
		if _, ok := r.clients[c.ClientID]; !ok {
			return
		}
		if c.Player < 0 || c.Player >= len(r.state.Players) {
			r.log.Debug("input for unknown player", "client", c.ClientID, "player", c.Player)
			return
		}
		r.state.Players[c.Player].Input = c.Input
	case Restart:
		if _, ok := r.clients[c.ClientID]; !ok {
			return
		}
		game.Restart(r.state)
		r.acc.Reset()
		r.log.Info("game restarted", "client", c.ClientID)
		r.broadcastState()
	case Snapshot:
		c.Reply <- r.buildSnapshot()
	case Leave:
		r.handleLeave(c.ClientID)
	}
}

func (r *Room) handleLeave(clientID string) {
	c, ok := r.clients[clientID]
	if !ok {
		return
	}
	_ = c.Close()
	r.dropClient(clientID)
	r.log.Info("client left", "client", clientID)
	if len(r.clients) == 0 {
		r.retire()
	}
}

func (r *Room) dropClient(clientID string) {
	delete(r.clients, clientID)
	r.numClients.Add(-1)
	r.metrics.clientDelta(-1)
	if len(r.clients) == 0 {
		r.emptySince = time.Now()
	}
}

func (r *Room) removeClient(clientID string) {
	if c, ok := r.clients[clientID]; ok {
		_ = c.Close()
		r.dropClient(clientID)
	}
}

func (r *Room) broadcastState() {
	r.broadcast(protocol.MsgState, r.buildSnapshot())
	r.metrics.broadcast(len(r.clients))
}

func (r *Room) broadcast(t string, payload any) {
	b, err := protocol.Encode(t, payload)
	if err != nil {
		r.log.Error("encode failed", "type", t, "err", err)
		return
	}

	var failed []string
	for id, c := range r.clients {
		if err := c.Send(b); err != nil {
			failed = append(failed, id)
		}
	}
	for _, id := range failed {
		r.log.Warn("dropping client after failed send", "client", id)
		r.removeClient(id)
	}
}

func (r *Room) sendTo(c Conn, t string, payload any) {
	b, err := protocol.Encode(t, payload)
	if err != nil {
		r.log.Error("encode failed", "type", t, "err", err)
		return
	}
	_ = c.Send(b)
}

func (r *Room) buildWelcome(clientID string) protocol.Welcome {
	w := protocol.Welcome{
		ClientID:   clientID,
		Room:       r.Code,
		TimeStepMs: game.TimeStepMs,
		Players:    make([]protocol.PlayerInfo, 0, len(r.state.Players)),
	}
	if r.field != nil {
		w.Terrain = r.field.Samples()
		w.Smooth = r.field.Smooth()
	}
	for _, p := range r.state.Players {
		w.Players = append(w.Players, protocol.PlayerInfo{
			Name:   p.Def.Name,
			Accent: p.Def.Accent,
			Avatar: p.Def.Avatar,
			Left:   p.Def.Keys.Left,
			Right:  p.Def.Keys.Right,
			Jump:   p.Def.Keys.Jump,
		})
	}
	return w
}

func (r *Room) buildSnapshot() protocol.State {
	s := r.state
	snapshot := protocol.State{
		Tick:       s.Tick,
		ElapsedMs:  s.ElapsedMs,
		CamX:       s.CamFocus.X,
		CamY:       s.CamFocus.Y,
		Round:      s.Round.Number,
		Phase:      s.Round.Phase.String(),
		GraceMs:    s.Round.GraceMs,
		IsGameOver: s.IsGameOver,
		Players:    make([]protocol.PlayerSnapshot, 0, len(s.Players)),
	}
	for i, p := range s.Players {
		snapshot.Players = append(snapshot.Players, protocol.PlayerSnapshot{
			Index:         i,
			X:             p.Pos.X,
			Y:             p.Pos.Y,
			A:             p.Angle,
			TouchesGround: p.TouchesGround,
			Score:         p.Score,
			DroppedOutMs:  p.DroppedOutMs,
		})
	}
	return snapshot
}

func eventMessage(tick int, e game.Event) protocol.Event {
	return protocol.Event{
		Tick:   tick,
		Kind:   e.Kind.String(),
		Player: e.Player,
		Other:  e.Other,
	}
}
