// Package realtime pushes entity-change events to every dashboard session of
// a store, so sibling views refetch after a mutation instead of polling.
package realtime

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 64
)

const (
	EntityBooking = "booking"
	EntityRequest = "request"
	EntityDeposit = "deposit"
	EntityRoom    = "room"

	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// Event tells connected clients which entity changed; they refetch the
// affected view themselves.
type Event struct {
	Entity string `json:"entity"`
	Action string `json:"action"`
	ID     int64  `json:"id"`
}

// Publisher is what services depend on; the hub satisfies it.
type Publisher interface {
	Publish(storeID int64, ev Event)
}

// session owns all writes to its connection. Publishers only enqueue; the
// writePump is the single goroutine allowed to touch the socket, which is
// what gorilla/websocket requires.
type session struct {
	conn *websocket.Conn
	send chan []byte
}

type Hub struct {
	mutex    sync.RWMutex
	sessions map[int64]map[*websocket.Conn]*session
}

func NewHub() *Hub {
	return &Hub{
		sessions: make(map[int64]map[*websocket.Conn]*session),
	}
}

func (h *Hub) Register(storeID int64, conn *websocket.Conn) {
	s := &session{conn: conn, send: make(chan []byte, sendBuffer)}

	h.mutex.Lock()
	if h.sessions[storeID] == nil {
		h.sessions[storeID] = make(map[*websocket.Conn]*session)
	}
	h.sessions[storeID][conn] = s
	h.mutex.Unlock()

	go h.writePump(storeID, s)
}

// Unregister removes the session and closes its send channel; the writePump
// then drains, sends a close frame and closes the socket.
func (h *Hub) Unregister(storeID int64, conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	set, ok := h.sessions[storeID]
	if !ok {
		return
	}
	if s, ok := set[conn]; ok {
		delete(set, conn)
		close(s.send)
	}
	if len(set) == 0 {
		delete(h.sessions, storeID)
	}
}

// Publish enqueues the event for every session of the store. Sessions whose
// buffer is full are too far behind to be useful and get dropped.
func (h *Hub) Publish(storeID int64, ev Event) {
	msg, err := json.Marshal(ev)
	if err != nil {
		return
	}

	var slow []*websocket.Conn
	h.mutex.RLock()
	for conn, s := range h.sessions[storeID] {
		select {
		case s.send <- msg:
		default:
			slow = append(slow, conn)
		}
	}
	h.mutex.RUnlock()

	for _, conn := range slow {
		h.Unregister(storeID, conn)
	}
}

func (h *Hub) SessionCount(storeID int64) int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	return len(h.sessions[storeID])
}

func (h *Hub) Close() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for storeID, set := range h.sessions {
		for _, s := range set {
			close(s.send)
		}
		delete(h.sessions, storeID)
	}
}

func (h *Hub) writePump(storeID int64, s *session) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				h.Unregister(storeID, s.conn)
				return
			}
		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.Unregister(storeID, s.conn)
				return
			}
		}
	}
}
