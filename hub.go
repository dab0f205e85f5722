package main

import (
	"encoding/json"
	"log"
	"sync"
)

const (
	maxConnsPerIP = 5
	maxTotalConns = 200
)

// Hub manages connected clients and bridges them to the single session
type Hub struct {
	mu         sync.RWMutex
	clients    map[*Client]bool
	controller *Client
	register   chan *Client
	unregister chan *Client
	session    *Session
	// Connection limiting (mutex-protected, accessed from HTTP handlers)
	connMu     sync.Mutex
	ipConns    map[string]int
	totalConns int
	// Auth & DB (db and stats may be nil)
	db    *DB
	auth  *Auth
	stats *Analytics
	cfg   Config
}

// NewHub creates a Hub and the session it broadcasts for
func NewHub(cfg Config, seed uint64, db *DB, auth *Auth, stats *Analytics) *Hub {
	h := &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client, 64),
		unregister: make(chan *Client, 64),
		ipConns:    make(map[string]int),
		db:         db,
		auth:       auth,
		stats:      stats,
		cfg:        cfg,
	}
	h.session = NewSession(cfg, seed, h, db, stats)
	return h
}

// Session returns the bridged session
func (h *Hub) Session() *Session { return h.session }

func (h *Hub) CanAccept(ip string) bool {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	if h.totalConns >= maxTotalConns {
		return false
	}
	if h.ipConns[ip] >= maxConnsPerIP {
		return false
	}
	return true
}

func (h *Hub) TrackConnect(ip string) {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	h.ipConns[ip]++
	h.totalConns++
}

func (h *Hub) TrackDisconnect(ip string) {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	h.ipConns[ip]--
	if h.ipConns[ip] <= 0 {
		delete(h.ipConns, ip)
	}
	h.totalConns--
}

// Run processes register/unregister events
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			n := len(h.clients)
			h.mu.Unlock()
			if h.stats != nil {
				h.stats.ObserveViewers(n)
			}

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			wasController := h.controller == client
			if wasController {
				h.controller = nil
			}
			n := len(h.clients)
			h.mu.Unlock()
			if wasController {
				h.session.Input().Release()
				h.BroadcastJSON(Envelope{T: MsgCtrlOff})
			}
			if h.stats != nil {
				h.stats.ObserveViewers(n)
			}
		}
	}
}

// SetController makes c the input device, replacing any previous one
func (h *Hub) SetController(c *Client) {
	h.mu.Lock()
	prev := h.controller
	h.controller = c
	h.mu.Unlock()
	if prev != nil && prev != c {
		prev.SendJSON(Envelope{T: MsgCtrlOff})
	}
	h.session.Input().Release()
	h.BroadcastJSON(Envelope{T: MsgCtrlOn})
}

// IsController reports whether c currently drives the input
func (h *Hub) IsController(c *Client) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.controller == c
}

// BroadcastJSON sends msg to every client
func (h *Hub) BroadcastJSON(msg interface{}) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("hub: marshal error: %v", err)
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		c.SendRaw(data)
	}
}

// BroadcastBinary sends a binary frame to every client
func (h *Hub) BroadcastBinary(data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		c.SendBinary(data)
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// TotalConns returns the tracked connection count
func (h *Hub) TotalConns() int {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	return h.totalConns
}
