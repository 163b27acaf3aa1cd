package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/nknorg/powledger/api/common"
	"github.com/nknorg/powledger/api/ratelimiter"
	"github.com/nknorg/powledger/api/websocket/session"
	"github.com/nknorg/powledger/config"
	"github.com/nknorg/powledger/errors"
	"github.com/nknorg/powledger/event"
	"github.com/nknorg/powledger/util/log"
)

const (
	pingInterval   = 8 * time.Second
	pongTimeout    = 10 * time.Second // should be greater than pingInterval
	maxMessageSize = 4096
)

type Handler func(ws *WsServer, sess *session.Session, req map[string]interface{}) (interface{}, errors.ErrCode)

type WsServer struct {
	sync.RWMutex
	Upgrader      websocket.Upgrader
	listener      net.Listener
	server        *http.Server
	SessionList   *session.SessionList
	ActionMap     map[string]Handler
	eventQueue    *event.EventQueue
	subscriptions map[event.EventType]int
}

func InitWsServer(eventQueue *event.EventQueue) *WsServer {
	ws := &WsServer{
		Upgrader:      websocket.Upgrader{},
		SessionList:   session.NewSessionList(),
		eventQueue:    eventQueue,
		subscriptions: make(map[event.EventType]int),
	}
	ws.Upgrader.CheckOrigin = func(r *http.Request) bool {
		return true
	}
	ws.registryMethod()
	return ws
}

func (ws *WsServer) Start() error {
	if config.Parameters.HttpWsPort == 0 {
		log.Error("Not configure HttpWsPort port ")
		return nil
	}

	var err error
	ws.listener, err = net.Listen("tcp", ":"+strconv.Itoa(int(config.Parameters.HttpWsPort)))
	if err != nil {
		log.Error("net.Listen: ", err.Error())
		return err
	}

	ws.SubscribeEvents(event.AllEventTypes()...)

	ws.server = &http.Server{Handler: ws.Handler()}
	go func() {
		if err := ws.server.Serve(ws.listener); err != nil && err != http.ErrServerClosed {
			log.Errorf("Websocket server error: %v", err)
		}
	}()

	log.Infof("Websocket server listening on %s", ws.listener.Addr())

	return nil
}

func (ws *WsServer) Stop() {
	ws.UnsubscribeEvents()
	if ws.server != nil {
		ws.server.Shutdown(context.Background())
		log.Info("Close websocket")
	}
}

// Handler serves the websocket endpoint without a listener.
func (ws *WsServer) Handler() http.Handler {
	return http.HandlerFunc(ws.websocketHandler)
}

// SubscribeEvents pushes every event of the given types to all sessions.
func (ws *WsServer) SubscribeEvents(eventTypes ...event.EventType) {
	ws.Lock()
	defer ws.Unlock()
	for _, eventType := range eventTypes {
		if _, ok := ws.subscriptions[eventType]; ok {
			continue
		}
		action := eventType.String()
		ws.subscriptions[eventType] = ws.eventQueue.Subscribe(eventType, func(v interface{}) {
			ws.PushResult(action, v)
		})
	}
}

func (ws *WsServer) UnsubscribeEvents() {
	ws.Lock()
	defer ws.Unlock()
	for eventType, id := range ws.subscriptions {
		if err := ws.eventQueue.Unsubscribe(eventType, id); err != nil {
			log.Warningf("Unsubscribe %v error: %v", eventType, err)
		}
		delete(ws.subscriptions, eventType)
	}
}

func (ws *WsServer) registryMethod() {
	heartbeat := func(ws *WsServer, sess *session.Session, req map[string]interface{}) (interface{}, errors.ErrCode) {
		return sess.GetSessionId(), errors.ErrNoError
	}

	getsessioncount := func(ws *WsServer, sess *session.Session, req map[string]interface{}) (interface{}, errors.ErrCode) {
		return ws.SessionList.GetSessionCount(), errors.ErrNoError
	}

	ws.ActionMap = map[string]Handler{
		"heartbeat":       heartbeat,
		"getsessioncount": getsessioncount,
	}
}

func (ws *WsServer) websocketHandler(w http.ResponseWriter, r *http.Request) {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if !ratelimiter.Allow("ws:"+host, config.Parameters.WsIPRateLimit, int(config.Parameters.WsIPRateBurst)) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
		return
	}

	wsConn, err := ws.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("websocket Upgrader: ", err)
		return
	}
	defer wsConn.Close()

	sess, err := ws.SessionList.NewSession(wsConn)
	if err != nil {
		log.Error("websocket NewSession:", err)
		return
	}

	defer func() {
		ws.SessionList.CloseSession(sess)
		if err := recover(); err != nil {
			log.Error("websocket recover:", err)
		}
	}()

	wsConn.SetReadLimit(maxMessageSize)
	wsConn.SetReadDeadline(time.Now().Add(pongTimeout))
	wsConn.SetPongHandler(func(string) error {
		wsConn.SetReadDeadline(time.Now().Add(pongTimeout))
		sess.UpdateLastReadTime()
		return nil
	})

	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(pingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := sess.Ping(); err != nil {
					return
				}
			case <-done:
				return
			}
		}
	}()

	for {
		messageType, bysMsg, err := wsConn.ReadMessage()
		if err != nil {
			log.Debugf("websocket read message error: %v", err)
			break
		}

		wsConn.SetReadDeadline(time.Now().Add(pongTimeout))
		sess.UpdateLastReadTime()

		if err := ws.OnDataHandle(sess, messageType, bysMsg); err != nil {
			log.Error(err)
		}
	}
}

func (ws *WsServer) OnDataHandle(curSession *session.Session, messageType int, bysMsg []byte) error {
	if messageType != websocket.TextMessage {
		ws.respondToSession(curSession, common.ResponsePack("", nil, errors.ErrInvalidParams))
		return fmt.Errorf("unsupported websocket message type %v", messageType)
	}

	var req = make(map[string]interface{})
	if err := json.Unmarshal(bysMsg, &req); err != nil {
		ws.respondToSession(curSession, common.ResponsePack("", nil, errors.ErrFormat))
		return fmt.Errorf("websocket OnDataHandle: %v", err)
	}

	actionName, _ := req["Action"].(string)
	action, ok := ws.ActionMap[actionName]
	if !ok {
		ws.respondToSession(curSession, common.ResponsePack(actionName, nil, errors.ErrInvalidParams))
		return nil
	}

	result, code := action(ws, curSession, req)
	ws.respondToSession(curSession, common.ResponsePack(actionName, result, code))

	return nil
}

func (ws *WsServer) respondToSession(sess *session.Session, resp map[string]interface{}) {
	data, err := json.Marshal(resp)
	if err != nil {
		log.Error("Websocket response:", err)
		return
	}
	if err := sess.SendText(data); err != nil {
		log.Debugf("Send to session %s error: %v", sess.GetSessionId(), err)
	}
}

// PushResult sends an action result to every connected session.
func (ws *WsServer) PushResult(action string, result interface{}) {
	resp := common.ResponsePack(action, result, errors.ErrNoError)
	data, err := json.Marshal(resp)
	if err != nil {
		log.Error("Websocket push:", err)
		return
	}
	ws.SessionList.ForEachSession(func(sess *session.Session) {
		if err := sess.SendText(data); err != nil {
			log.Debugf("Push to session %s error: %v", sess.GetSessionId(), err)
		}
	})
}
