// Package server exposes the contract wrappers over HTTP.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/fxnlabs/contract-wrappers/internal/metrics"
	"github.com/fxnlabs/contract-wrappers/internal/registry"
	"github.com/fxnlabs/contract-wrappers/pkg/wrappers"
)

const readHeaderTimeout = 10 * time.Second

// NewHandler routes every endpoint. Each route is counted under its pattern.
func NewHandler(cw *wrappers.ContractWrappers, artifacts *registry.Registry, log *zap.Logger) http.Handler {
	log = log.Named("server")
	mux := http.NewServeMux()
	handle := func(pattern string, h http.Handler) {
		mux.Handle(pattern, metrics.Middleware(h, pattern))
	}

	handle("POST /v1/order-validator/order-and-trader-info", NewOrderAndTraderInfoHandler(cw.OrderValidator, log))
	handle("POST /v1/order-validator/orders-and-traders-info", NewOrdersAndTradersInfoHandler(cw.OrderValidator, log))
	handle("POST /v1/order-validator/trader-info", NewTraderInfoHandler(cw.OrderValidator, log))
	handle("POST /v1/order-validator/traders-info", NewTradersInfoHandler(cw.OrderValidator, log))
	handle("GET /v1/order-validator/balance-and-allowance", NewBalanceAndAllowanceHandler(cw.OrderValidator, log))
	handle("GET /v1/staking/{owner}", NewStakeBalancesHandler(cw.Staking, log))
	handle("GET /v1/artifacts", NewArtifactsHandler(artifacts, cw, log))
	mux.Handle("GET /metrics", metrics.Handler())
	return mux
}

// Server serves a handler until stopped.
type Server struct {
	httpServer *http.Server
	listener   net.Listener
	logger     *zap.Logger
}

func New(addr string, handler http.Handler, log *zap.Logger) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: readHeaderTimeout,
		},
		logger: log.Named("server"),
	}
}

// Start binds the listen address and serves in the background.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	s.listener = ln
	s.logger.Info("Starting server on", zap.String("address", ln.Addr().String()))
	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Server stopped", zap.Error(err))
		}
	}()
	return nil
}

// Addr is the bound address once started.
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.httpServer.Addr
	}
	return s.listener.Addr().String()
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping server")
	return s.httpServer.Shutdown(ctx)
}
