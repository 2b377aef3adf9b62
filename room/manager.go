package room

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"
	"sort"
	"sync"

	"slopes/level"
)

// RoomInfo is returned by the API for the room list.
type RoomInfo struct {
	Code    string `json:"code"`
	Clients int    `json:"clients"`
	Level   string `json:"level"`
}

// Manager holds multiple rooms by code. Rooms are created on first join or via CreateRoom,
// and removed when the last client leaves or they sit empty for the idle timeout. Every
// room plays its own copy of the same level.
type Manager struct {
	mu    sync.RWMutex
	rooms map[string]*Room
	level *level.Level
	opts  Options
}

func NewManager(l *level.Level, opts Options) *Manager {
	return &Manager{
		rooms: make(map[string]*Room),
		level: l,
		opts:  opts,
	}
}

// GetOrCreateRoom returns the room for the given code, creating it if needed.
func (m *Manager) GetOrCreateRoom(code string) *Room {
	if code == "" {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.rooms[code]; ok {
		return r
	}
	return m.startRoom(code)
}

// Get returns the room with the given code, if it exists.
func (m *Manager) Get(code string) (*Room, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.rooms[code]
	return r, ok
}

// joinAttempts bounds how often Join chases a room that closed under it.
const joinAttempts = 3

// Join attaches conn to the room with the given code, creating the room if
// needed. A room that closes before the join lands is replaced by a fresh
// one under the same code.
func (m *Manager) Join(ctx context.Context, code string, conn Conn, name string) (*Room, string, error) {
	for range joinAttempts {
		r := m.GetOrCreateRoom(code)
		if r == nil {
			return nil, "", errors.New("empty room code")
		}
		id, err := r.Join(ctx, conn, name)
		if errors.Is(err, ErrClosed) {
			continue
		}
		if err != nil {
			return nil, "", err
		}
		return r, id, nil
	}
	return nil, "", ErrClosed
}

// startRoom must be called with mu held.
func (m *Manager) startRoom(code string) *Room {
	r := New(m.level, m.opts)
	r.Code = code
	r.OnEmpty = func(string) { m.removeRoom(r) }
	m.rooms[code] = r
	go r.Run()
	return r
}

// removeRoom drops r from the map and stops it. It runs on r's goroutine
// through OnEmpty, so mu must never be held while waiting on a room.
func (m *Manager) removeRoom(r *Room) {
	m.mu.Lock()
	if cur, ok := m.rooms[r.Code]; ok && cur == r {
		delete(m.rooms, r.Code)
	}
	m.mu.Unlock()
	r.Stop()
}

const codeChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// CreateRoom generates a unique 6-char code, creates the room, and returns the code.
func (m *Manager) CreateRoom() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	for {
		code := generateCode(6)
		if _, exists := m.rooms[code]; exists {
			continue
		}
		m.startRoom(code)
		return code
	}
}

// ListRooms returns all active rooms sorted by code.
func (m *Manager) ListRooms() []RoomInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]RoomInfo, 0, len(m.rooms))
	for code, r := range m.rooms {
		out = append(out, RoomInfo{Code: code, Clients: r.NumPlayers(), Level: m.level.Name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// Close stops every room.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for code, r := range m.rooms {
		r.Stop()
		delete(m.rooms, code)
	}
}

func generateCode(n int) string {
	b := make([]byte, n)
	max := big.NewInt(int64(len(codeChars)))
	for i := range b {
		idx, _ := rand.Int(rand.Reader, max)
		b[i] = codeChars[idx.Int64()]
	}
	return string(b)
}
