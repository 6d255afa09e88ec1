package main

import (
	"context"
	"encoding/json"
	"net"
	"sync"
)

// BuzzArbiter turns the stream of buzz datagrams into a fair, strictly
// ordered queue of distinct client ids. Order is defined solely by server
// receipt: the timestamps clients embed in their buzzes are logged but
// never consulted, since nothing synchronizes client clocks.
//
// Reset starts a new arbitration epoch; a signal racing with a reset lands
// in exactly one epoch, before or after, and is never counted twice.
type BuzzArbiter struct {
	cfg    *Config
	mu     sync.Mutex
	order  []int
	queued map[int]bool
}

func newBuzzArbiter(cfg *Config) *BuzzArbiter {
	return &BuzzArbiter{
		cfg:    cfg,
		queued: make(map[int]bool),
	}
}

// Signal records a buzz for clientID. Duplicate buzzes within one epoch
// are absorbed; the return reports whether the client was newly queued.
func (a *BuzzArbiter) Signal(clientID int) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.queued[clientID] {
		return false
	}
	a.queued[clientID] = true
	a.order = append(a.order, clientID)

	logf(a.cfg, "BUZZ: Client %d queued, queue now %v", clientID, a.order)

	return true
}

// Reset clears the queue, starting a new epoch.
func (a *BuzzArbiter) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if len(a.order) != 0 {
		logf(a.cfg, "BUZZ: Clearing queue %v", a.order)
	}

	a.order = a.order[:0]
	clear(a.queued)
}

// Next pops the oldest queued client id. The second return is false when
// the queue is empty.
func (a *BuzzArbiter) Next() (int, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if len(a.order) == 0 {
		return 0, false
	}
	id := a.order[0]
	a.order = a.order[1:]
	delete(a.queued, id)
	return id, true
}

// Len returns the number of clients currently queued.
func (a *BuzzArbiter) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()

	return len(a.order)
}

// serveBuzzes reads buzz datagrams until the socket is closed. Each packet
// is attributed to the registered session whose remote host matches the
// packet's source host; packets from unknown hosts or with bodies that do
// not decode are dropped.
func serveBuzzes(ctx context.Context, cfg *Config, conn *net.UDPConn, arbiter *BuzzArbiter, registry *Registry) {
	buf := make([]byte, 512)

	for {
		n, addr, err := conn.ReadFromUDP(buf)
		if err != nil {
			if ctx.Err() == nil {
				logf(cfg, "BUZZ: Listener stopped: %v", err)
			}
			return
		}

		var msg BuzzMessage
		if err := json.Unmarshal(buf[:n], &msg); err != nil {
			logf(cfg, "BUZZ: Dropping malformed packet from %s: %v", addr, err)
			continue
		}

		session := registry.ByHost(addr.IP.String())
		if session == nil {
			logf(cfg, "BUZZ: Dropping buzz from unknown host %s", addr)
			continue
		}

		if arbiter.Signal(session.id) {
			logf(cfg, "BUZZ: Client %d buzzed (client clock %d)", session.id, msg.Timestamp)
		}
	}
}
