package net

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"Sketchpad/internal/state"

	"github.com/gorilla/websocket"
)

const (
	Scheme   = "sketchpad://"
	WSPath   = "/ws"
	sendSize = 4

	writeWait = 5 * time.Second
)

// peer is one connected viewer. Only its write pump touches conn for writes.
type peer struct {
	conn *websocket.Conn
	send chan []byte
}

// Mirror broadcasts saved snapshots to every connected viewer. Late joiners
// get the most recent snapshot straight away.
type Mirror struct {
	upgrader websocket.Upgrader

	mu     sync.RWMutex
	peers  map[*peer]bool
	latest []byte

	server *http.Server
}

func NewMirror() *Mirror {
	return &Mirror{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		peers: make(map[*peer]bool),
	}
}

// Publish queues snap for all viewers. It never blocks on the network; a
// viewer whose queue is full misses this snapshot and catches up on the next.
func (m *Mirror) Publish(snap state.Snapshot) {
	data, err := json.Marshal(SnapshotMessage(snap))
	if err != nil {
		log.Printf("[MIRROR] Encoding snapshot %d failed: %v", snap.Seq, err)
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.latest = data
	for p := range m.peers {
		select {
		case p.send <- data:
		default:
			log.Printf("[MIRROR] Viewer %s is behind, dropping snapshot %d", p.conn.RemoteAddr(), snap.Seq)
		}
	}
}

// Viewers is the number of connected viewers.
func (m *Mirror) Viewers() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.peers)
}

func (m *Mirror) add(p *peer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.peers[p] = true
	if m.latest != nil {
		p.send <- m.latest
	}
	log.Printf("[MIRROR] Viewer connected from %s", p.conn.RemoteAddr())
}

func (m *Mirror) remove(p *peer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.peers[p] {
		delete(m.peers, p)
		close(p.send)
		log.Printf("[MIRROR] Viewer %s left", p.conn.RemoteAddr())
	}
}

// ServeHTTP upgrades the request and streams snapshots until the viewer goes
// away.
func (m *Mirror) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := m.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[MIRROR] Upgrade from %s failed: %v", r.RemoteAddr, err)
		return
	}
	p := &peer{conn: conn, send: make(chan []byte, sendSize)}
	m.add(p)
	go p.writePump()

	// Viewers are read-only; reading only detects the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	m.remove(p)
}

func (p *peer) writePump() {
	defer p.conn.Close()
	for data := range p.send {
		p.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := p.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Printf("[MIRROR] Write to %s failed: %v", p.conn.RemoteAddr(), err)
			return
		}
	}
	p.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
}

// Start listens on addr and serves the websocket endpoint in the background.
// It returns the bound address, which matters when addr asks for port 0.
func (m *Mirror) Start(addr string) (net.Addr, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("mirror listen on %s: %w", addr, err)
	}
	mux := http.NewServeMux()
	mux.Handle(WSPath, m)
	m.server = &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := m.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("[MIRROR] Server stopped: %v", err)
		}
	}()
	log.Printf("[MIRROR] Listening on %s", ln.Addr())
	return ln.Addr(), nil
}

// Close stops the server and disconnects every viewer.
func (m *Mirror) Close(ctx context.Context) error {
	m.mu.Lock()
	for p := range m.peers {
		p.conn.Close()
	}
	m.mu.Unlock()
	if m.server == nil {
		return nil
	}
	return m.server.Shutdown(ctx)
}

// ShareLink is the link a viewer can be started with.
func ShareLink(host string, port int) string {
	return fmt.Sprintf("%s%s:%d", Scheme, host, port)
}
