package speech

import (
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

var ErrTransportClosed = errors.New("transport closed")

// Transport delivers commands to the browser.
type Transport interface {
	Send(frame Frame) error
	Close() error
}

const writeWait = 5 * time.Second

// WSTransport writes frames to a websocket connection. Writes are serialized.
type WSTransport struct {
	conn   *websocket.Conn
	mu     sync.Mutex
	closed bool
}

func NewWSTransport(conn *websocket.Conn) *WSTransport {
	return &WSTransport{conn: conn}
}

func (t *WSTransport) Send(frame Frame) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed || t.conn == nil {
		return ErrTransportClosed
	}
	_ = t.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return t.conn.WriteJSON(frame)
}

func (t *WSTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed || t.conn == nil {
		return nil
	}
	t.closed = true
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "interview ended")
	_ = t.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
	return t.conn.Close()
}

// Detached drops every frame. Sessions use it until a browser connects.
type Detached struct{}

func (Detached) Send(Frame) error { return nil }
func (Detached) Close() error     { return nil }

// Switchable lets a session swap transports when the browser reconnects.
type Switchable struct {
	mu      sync.Mutex
	current Transport
}

func NewSwitchable() *Switchable {
	return &Switchable{current: Detached{}}
}

// Attach replaces the current transport and closes the previous one.
func (s *Switchable) Attach(t Transport) {
	s.mu.Lock()
	prev := s.current
	s.current = t
	s.mu.Unlock()
	if prev != nil {
		_ = prev.Close()
	}
}

// Detach drops t if it is still the current transport.
func (s *Switchable) Detach(t Transport) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == t {
		s.current = Detached{}
	}
}

// Connected reports whether a real transport is attached.
func (s *Switchable) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, detached := s.current.(Detached)
	return !detached
}

func (s *Switchable) Send(frame Frame) error {
	s.mu.Lock()
	t := s.current
	s.mu.Unlock()
	return t.Send(frame)
}

func (s *Switchable) Close() error {
	s.mu.Lock()
	t := s.current
	s.current = Detached{}
	s.mu.Unlock()
	return t.Close()
}
