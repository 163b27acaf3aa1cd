package session

import (
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pborman/uuid"
)

const (
	writeTimeout = 10 * time.Second
)

type Session struct {
	sync.Mutex
	ws           *websocket.Conn
	sSessionId   string
	lastReadTime time.Time
}

func (s *Session) GetSessionId() string {
	return s.sSessionId
}

func newSession(wsConn *websocket.Conn) *Session {
	return &Session{
		ws:           wsConn,
		sSessionId:   uuid.NewUUID().String(),
		lastReadTime: time.Now(),
	}
}

func (s *Session) close() {
	s.Lock()
	defer s.Unlock()
	if s.ws != nil {
		s.ws.Close()
		s.ws = nil
	}
}

func (s *Session) Send(msgType int, data []byte) error {
	s.Lock()
	defer s.Unlock()
	if s.ws == nil {
		return errors.New("Websocket is null")
	}
	s.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
	return s.ws.WriteMessage(msgType, data)
}

func (s *Session) SendText(data []byte) error {
	return s.Send(websocket.TextMessage, data)
}

func (s *Session) Ping() error {
	return s.Send(websocket.PingMessage, nil)
}

func (s *Session) UpdateLastReadTime() {
	s.Lock()
	defer s.Unlock()
	s.lastReadTime = time.Now()
}

func (s *Session) GetLastReadTime() time.Time {
	s.Lock()
	defer s.Unlock()
	return s.lastReadTime
}
