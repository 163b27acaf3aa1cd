package httpjson

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nknorg/powledger/chain"
	"github.com/nknorg/powledger/config"
	"github.com/nknorg/powledger/util/log"
)

const shutdownTimeout = 5 * time.Second

// Resolver runs one round of consensus resolution.
type Resolver interface {
	Resolve(ctx context.Context) bool
}

type RPCServer struct {
	// defines the address the server listens on, such as ":5000"
	listener string

	ledger   *chain.Ledger
	resolver Resolver
	engine   *gin.Engine
	server   *http.Server
}

// NewServer will create a new RPC server instance.
func NewServer(ledger *chain.Ledger, resolver Resolver) *RPCServer {
	gin.SetMode(gin.ReleaseMode)

	s := &RPCServer{
		listener: ":" + strconv.Itoa(int(config.Parameters.HttpJsonPort)),
		ledger:   ledger,
		resolver: resolver,
		engine:   gin.New(),
	}

	s.engine.Use(gin.Recovery(), accessLogger(), rateLimiter("rpc", config.Parameters.RPCIPRateLimit, int(config.Parameters.RPCIPRateBurst)))
	s.registerRoutes()

	// 404 router
	s.engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "not found"})
	})

	return s
}

func (s *RPCServer) registerRoutes() {
	s.engine.GET("/mine", s.mine)
	s.engine.POST("/transactions/new", s.newTransaction)
	s.engine.GET(config.DefaultChainEndpoint, s.fullChain)
	s.engine.POST("/nodes/register", s.registerNodes)
	s.engine.GET("/nodes/resolve", s.resolve)
	s.engine.GET("/nodes", s.nodes)
}

// Handler exposes the routes without a listener.
func (s *RPCServer) Handler() http.Handler {
	return s.engine
}

func (s *RPCServer) Start() error {
	listener, err := net.Listen("tcp", s.listener)
	if err != nil {
		log.Error("net.Listen: ", err.Error())
		return err
	}

	s.server = &http.Server{Handler: s.engine}
	go func() {
		if err := s.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Errorf("HTTP JSON server error: %v", err)
		}
	}()

	log.Infof("HTTP JSON server listening on %s", listener.Addr())

	return nil
}

func (s *RPCServer) Stop() {
	if s.server == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(ctx); err != nil {
		log.Errorf("Shutdown HTTP JSON server error: %v", err)
	}
}
