package session

import (
	"errors"
	"sync"

	"github.com/gorilla/websocket"
)

type SessionList struct {
	sync.RWMutex
	mapOnlineList map[string]*Session //key is SessionId
}

func NewSessionList() *SessionList {
	return &SessionList{
		mapOnlineList: make(map[string]*Session),
	}
}

func (sl *SessionList) NewSession(wsConn *websocket.Conn) (*Session, error) {
	session := newSession(wsConn)
	if err := sl.addOnlineSession(session); err != nil {
		return nil, err
	}
	return session, nil
}

func (sl *SessionList) CloseSession(session *Session) error {
	if session == nil {
		return errors.New("Session is nil")
	}
	err := sl.removeSession(session)
	if err != nil {
		return err
	}
	session.close()
	return nil
}

func (sl *SessionList) addOnlineSession(session *Session) error {
	sessionId := session.GetSessionId()
	if sessionId == "" {
		return errors.New("Session id is empty")
	}
	sl.Lock()
	defer sl.Unlock()
	if _, ok := sl.mapOnlineList[sessionId]; ok {
		return errors.New("Duplicate session id")
	}
	sl.mapOnlineList[sessionId] = session
	return nil
}

func (sl *SessionList) removeSession(session *Session) error {
	sl.Lock()
	defer sl.Unlock()
	sessionId := session.GetSessionId()
	if sl.mapOnlineList[sessionId] != session {
		return errors.New("Session not found")
	}
	delete(sl.mapOnlineList, sessionId)
	return nil
}

func (sl *SessionList) GetSessionCount() int {
	sl.RLock()
	defer sl.RUnlock()
	return len(sl.mapOnlineList)
}

// ForEachSession calls visit for a snapshot of the online sessions.
func (sl *SessionList) ForEachSession(visit func(*Session)) {
	sl.RLock()
	sessions := make([]*Session, 0, len(sl.mapOnlineList))
	for _, s := range sl.mapOnlineList {
		sessions = append(sessions, s)
	}
	sl.RUnlock()

	for _, s := range sessions {
		visit(s)
	}
}
