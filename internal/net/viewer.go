package net

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"
)

// Viewer follows a remote mirror.
type Viewer struct {
	conn *websocket.Conn
}

// ParseLink accepts either a share link or a bare host:port.
func ParseLink(link string) (string, error) {
	addr := strings.TrimSuffix(strings.TrimPrefix(link, Scheme), "/")
	if addr == "" || !strings.Contains(addr, ":") {
		return "", fmt.Errorf("bad share link %q", link)
	}
	return addr, nil
}

// Dial connects to the mirror at host:port.
func Dial(ctx context.Context, addr string) (*Viewer, error) {
	u := url.URL{Scheme: "ws", Host: addr, Path: WSPath}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("dial mirror %s: %w", addr, err)
	}
	log.Printf("[VIEWER] Connected to %s", addr)
	return &Viewer{conn: conn}, nil
}

// Next blocks until the next snapshot arrives. Frames of unknown type are
// skipped.
func (v *Viewer) Next() (Message, error) {
	for {
		var msg Message
		if err := v.conn.ReadJSON(&msg); err != nil {
			return Message{}, err
		}
		if msg.Type == MessageSnapshot {
			return msg, nil
		}
		log.Printf("[VIEWER] Ignoring %q message", msg.Type)
	}
}

// Run hands every snapshot to fn until the connection ends or ctx is done.
func (v *Viewer) Run(ctx context.Context, fn func(Message)) error {
	stop := context.AfterFunc(ctx, func() { v.conn.Close() })
	defer stop()
	for {
		msg, err := v.Next()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
		fn(msg)
	}
}

func (v *Viewer) Close() error {
	v.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	return v.conn.Close()
}
