package main

import (
	"sync"

	"github.com/gorilla/websocket"
)

// Registry is the shared map of connected clients, used by the WebSocket
// acceptor, each session's read pump, the buzz listener, and the game
// loop. Ids are assigned monotonically on connect and never reused.
type Registry struct {
	cfg    *Config
	scores *Scoreboard

	mu       sync.Mutex
	sessions map[int]*Session
	nextID   int
}

func newRegistry(cfg *Config, scores *Scoreboard) *Registry {
	return &Registry{
		cfg:      cfg,
		scores:   scores,
		sessions: make(map[int]*Session),
	}
}

// Add registers a new connection, assigning it the next client id and a
// zeroed score.
func (r *Registry) Add(conn *websocket.Conn, host string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	session := newSession(r.nextID, host, conn)
	r.sessions[session.id] = session
	r.scores.Init(session.id)

	logf(r.cfg, "WS: Client %d connected from %s", session.id, host)

	return session
}

// Remove deregisters a departed client and drops its score. Idempotent;
// buzz-queue entries for the id are skipped lazily by the game loop.
func (r *Registry) Remove(clientID int) {
	r.mu.Lock()
	session, ok := r.sessions[clientID]
	if ok {
		delete(r.sessions, clientID)
	}
	r.mu.Unlock()

	if !ok {
		return
	}

	r.scores.Remove(clientID)
	session.Close()

	logf(r.cfg, "WS: Client %d removed", clientID)
}

// Get returns the session for a client id, or nil if it has departed.
func (r *Registry) Get(clientID int) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.sessions[clientID]
}

// ByHost resolves a remote host to a session, for attributing buzz
// datagrams. With several clients behind one host the lowest id wins,
// matching the first-come attribution of the original protocol.
func (r *Registry) ByHost(host string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	var match *Session
	for _, session := range r.sessions {
		if session.host != host {
			continue
		}
		if match == nil || session.id < match.id {
			match = session
		}
	}
	return match
}

// Sessions returns a point-in-time copy of all connected sessions.
func (r *Registry) Sessions() []*Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	sessions := make([]*Session, 0, len(r.sessions))
	for _, session := range r.sessions {
		sessions = append(sessions, session)
	}
	return sessions
}

// Count returns the number of connected clients.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.sessions)
}

// Broadcast sends a message to every connected client, evicting any whose
// channel is gone.
func (r *Registry) Broadcast(msg any) {
	for _, session := range r.Sessions() {
		if err := session.Send(msg); err != nil {
			r.Remove(session.id)
		}
	}
}
