package server

import (
	"sync"

	"github.com/gorilla/websocket"
)

// safeConn wraps a websocket.Conn so the frame ticker and command reader can
// share it from separate goroutines. Gorilla allows at most one concurrent
// reader and one concurrent writer per connection.
type safeConn struct {
	c       *websocket.Conn
	writeMu sync.Mutex
	readMu  sync.Mutex
}

func newSafeConn(c *websocket.Conn) *safeConn {
	return &safeConn{c: c}
}

func (s *safeConn) ReadMessage() (int, []byte, error) {
	s.readMu.Lock()
	defer s.readMu.Unlock()
	return s.c.ReadMessage()
}

func (s *safeConn) WriteMessage(messageType int, data []byte) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.c.WriteMessage(messageType, data)
}

func (s *safeConn) Close() error {
	return s.c.Close()
}
