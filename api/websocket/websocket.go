package websocket

import (
	"github.com/nknorg/powledger/api/websocket/server"
	"github.com/nknorg/powledger/event"
)

// NewServer returns a websocket server that pushes ledger events from
// event.Queue once started.
func NewServer() *server.WsServer {
	return server.InitWsServer(event.Queue)
}
