package network

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"slopes/game"
	"slopes/protocol"
	"slopes/room"
)

// Server exposes rooms over HTTP: a websocket bridge for renderers, a small
// JSON API for the room list, and the static front end.
type Server struct {
	rooms     *room.Manager
	staticDir string
	log       *slog.Logger
	upgrader  websocket.Upgrader
}

func NewServer(rooms *room.Manager, staticDir string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		rooms:     rooms,
		staticDir: staticDir,
		log:       logger,
		upgrader: websocket.Upgrader{
			// For dev, allow all origins. Lock this down in prod.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ws", s.wsHandler)
	mux.HandleFunc("GET /rooms", s.listRooms)
	mux.HandleFunc("POST /rooms", s.createRoom)
	mux.HandleFunc("GET /rooms/{code}/terrain", s.roomTerrain)
	if s.staticDir != "" {
		mux.Handle("GET /", http.FileServer(http.Dir(s.staticDir)))
	}
	return mux
}

func (s *Server) listRooms(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.rooms.ListRooms())
}

func (s *Server) createRoom(w http.ResponseWriter, r *http.Request) {
	code := s.rooms.CreateRoom()
	s.log.Info("room created", "room", code, "remote", r.RemoteAddr)
	writeJSON(w, http.StatusCreated, map[string]string{"code": code})
}

func (s *Server) roomTerrain(w http.ResponseWriter, r *http.Request) {
	rm, ok := s.rooms.Get(r.PathValue("code"))
	if !ok {
		http.Error(w, "no such room", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(rm.Terrain().Serialize()))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// wsHandler attaches a renderer to the room named by the "room" query
// parameter, creating the room when it does not exist yet. The first frame
// must be a hello.
func (s *Server) wsHandler(w http.ResponseWriter, r *http.Request) {
	// Upgrade HTTP -> WebSocket
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("upgrade failed", "err", err)
		return
	}

	// Basic timeouts + pong handling (keeps connections healthy)
	ws.SetReadLimit(1 << 20) // 1MB
	_ = ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	hello, err := readHello(ws)
	if err == nil && hello.V != protocol.Version {
		err = fmt.Errorf("protocol version %d, want %d", hello.V, protocol.Version)
	}
	if err != nil {
		s.log.Warn("bad hello", "remote", r.RemoteAddr, "err", err)
		b, _ := protocol.Encode(protocol.MsgError, protocol.Error{Msg: err.Error()})
		_ = ws.SetWriteDeadline(time.Now().Add(writeWait))
		_ = ws.WriteMessage(websocket.TextMessage, b)
		_ = ws.Close()
		return
	}

	// Only the writer goroutine of conn writes to ws from here on.
	conn := newWSConn(ws)
	defer conn.Close()

	code := r.URL.Query().Get("room")
	if code == "" {
		code = s.rooms.CreateRoom()
	}
	rm, clientID, err := s.rooms.Join(r.Context(), code, conn, hello.Name)
	if err != nil {
		s.log.Warn("join failed", "room", code, "remote", r.RemoteAddr, "err", err)
		return
	}
	log := s.log.With("room", code, "client", clientID)
	defer rm.Post(room.Leave{ClientID: clientID})

	for {
		_, msg, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Warn("read failed", "err", err)
			}
			return
		}
		_ = ws.SetReadDeadline(time.Now().Add(pongWait))

		env, err := protocol.DecodeEnvelope(msg)
		if err != nil {
			log.Debug("dropping frame", "err", err)
			continue
		}
		switch env.T {
		case protocol.MsgInput:
			in, err := protocol.DecodePayload[protocol.Input](env)
			if err != nil {
				log.Debug("bad input", "err", err)
				continue
			}
			if !rm.Post(room.Input{
				ClientID: clientID,
				Player:   in.Player,
				Input: game.Input{
					RotateLeft:  in.RotateLeft,
					RotateRight: in.RotateRight,
					Jump:        in.Jump,
				},
			}) {
				return
			}
		case protocol.MsgRestart:
			if !rm.Post(room.Restart{ClientID: clientID}) {
				return
			}
		default:
			log.Debug("unexpected message", "type", env.T)
		}
	}
}

func readHello(ws *websocket.Conn) (protocol.Hello, error) {
	_, msg, err := ws.ReadMessage()
	if err != nil {
		return protocol.Hello{}, err
	}
	env, err := protocol.DecodeEnvelope(msg)
	if err != nil {
		return protocol.Hello{}, err
	}
	if env.T != protocol.MsgHello {
		return protocol.Hello{}, fmt.Errorf("unexpected message %q, want %q", env.T, protocol.MsgHello)
	}
	return protocol.DecodePayload[protocol.Hello](env)
}

