package main

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
)

// Session owns the reliable channel to one connected player. Outbound
// messages flow through a buffered send channel drained by writePump, so
// per-client ordering is preserved; inbound answers are read by readPump
// into a single-slot mailbox that only ever holds the latest submission.
type Session struct {
	id   int
	host string // remote host, used to attribute buzz datagrams
	conn *websocket.Conn

	send chan any

	mu     sync.Mutex
	closed bool
	answer *Answer
}

func newSession(id int, host string, conn *websocket.Conn) *Session {
	return &Session{
		id:   id,
		host: host,
		conn: conn,
		send: make(chan any, 8),
	}
}

// Send queues a message for delivery. A full send buffer means the client
// has stopped draining its connection, and the session is closed rather
// than letting it stall the game; both that case and an already-closed
// session return ErrSessionClosed.
func (s *Session) Send(msg any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionClosed
	}

	select {
	case s.send <- msg:
		return nil
	default:
		s.closed = true
		close(s.send)
		return ErrSessionClosed
	}
}

// Close releases the channel. Safe to call more than once.
func (s *Session) Close() {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.send)
	}
	s.mu.Unlock()

	s.conn.Close()
}

// storeAnswer overwrites any pending submission with the latest one.
func (s *Session) storeAnswer(a Answer) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.answer = &a
}

// TakeAnswer atomically reads and clears the pending submission, so each
// answer is consumed at most once.
func (s *Session) TakeAnswer() (Answer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.answer == nil {
		return Answer{}, false
	}
	a := *s.answer
	s.answer = nil
	return a, true
}

// ClearAnswer discards any pending submission, called at the start of a
// candidate turn so stale answers from earlier questions cannot count.
func (s *Session) ClearAnswer() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.answer = nil
}

func (s *Session) writePump() {
	defer s.conn.Close()

	for msg := range s.send {
		if err := s.conn.WriteJSON(msg); err != nil {
			return
		}
	}
}

// readPump reads client messages until the connection dies, then removes
// the session from the registry. Frames that fail to decode are dropped
// with a log while the connection stays up; only transport errors end the
// session.
func (s *Session) readPump(cfg *Config, registry *Registry) {
	defer registry.Remove(s.id)

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			logf(cfg, "WS: Dropping malformed message from client %d: %v", s.id, err)
			continue
		}

		switch msg.Type {
		case typeAnswer:
			s.storeAnswer(Answer{
				Question: msg.Question,
				Option:   msg.Option,
			})
			logf(cfg, "WS: Client %d answered %q for question %d", s.id, msg.Option, msg.Question)
		default:
			// ignore unknown types
		}
	}
}
