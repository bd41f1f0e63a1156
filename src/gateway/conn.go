package gateway

import (
	"context"

	"github.com/gorilla/websocket"
)

// Conn is the message-framed transport the gateway drives. Frames
// arrive either as text or as part of a compressed binary stream.
// *websocket.Conn satisfies it.
type Conn interface {
	ReadMessage() (messageType int, frame []byte, err error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

type Dialer interface {
	Dial(ctx context.Context, url string) (Conn, error)
}

type wsDialer struct {
	dialer *websocket.Dialer
}

// DefaultDialer dials with gorilla's default websocket dialer.
func DefaultDialer() Dialer {
	return &wsDialer{dialer: websocket.DefaultDialer}
}

func (d *wsDialer) Dial(ctx context.Context, url string) (Conn, error) {
	conn, _, err := d.dialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, err
	}
	return conn, nil
}
