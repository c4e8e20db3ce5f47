// Package api exposes read-only JSON views of the running engine and a
// websocket stream of strategy statuses.
package api

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/rxtech-lab/argo-moonshot/internal/config"
	"github.com/rxtech-lab/argo-moonshot/internal/logger"
	"github.com/rxtech-lab/argo-moonshot/internal/types"
	"github.com/rxtech-lab/argo-moonshot/pkg/errors"
	"go.uber.org/zap"
)

const (
	shutdownTimeout = 5 * time.Second
	writeTimeout    = 10 * time.Second
	balancesTimeout = 10 * time.Second
)

// StatusProvider is the query surface of the engine.
type StatusProvider interface {
	Strategies() []types.StrategyID
	Symbols() []string
	GetStrategyStatus(id types.StrategyID) (types.StrategyStatus, error)
	GetMarketData() map[string]types.MarketSnapshot
	GetSentimentData() map[string]types.SentimentSnapshot
	GetIndicators() map[string]types.IndicatorSet
	GetModelState() types.ModelState
	GetBalances(ctx context.Context) (map[string]types.Balance, error)
	Now() time.Time
}

// StatusMessage is one websocket push.
type StatusMessage struct {
	Time       time.Time                                 `json:"time"`
	Strategies map[types.StrategyID]types.StrategyStatus `json:"strategies"`
}

type errorResponse struct {
	Code    errors.ErrorCode `json:"code"`
	Message string           `json:"message"`
}

// Server serves the read-only views.
type Server struct {
	provider StatusProvider
	cfg      config.APIConfig
	logger   *logger.Logger
	upgrader websocket.Upgrader
	router   *mux.Router
}

// NewServer builds the router. A nil logger discards output.
func NewServer(provider StatusProvider, cfg config.APIConfig, log *logger.Logger) *Server {
	if log == nil {
		log = logger.NewNopLogger()
	}

	s := &Server{
		provider: provider,
		cfg:      cfg,
		logger:   log.Named("api"),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(_ *http.Request) bool { return true },
		},
		router: mux.NewRouter(),
	}

	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	s.router.HandleFunc("/api/strategies", s.handleStrategies).Methods(http.MethodGet)
	s.router.HandleFunc("/api/strategies/{id}", s.handleStrategy).Methods(http.MethodGet)
	s.router.HandleFunc("/api/market", s.handleMarket).Methods(http.MethodGet)
	s.router.HandleFunc("/api/sentiment", s.handleSentiment).Methods(http.MethodGet)
	s.router.HandleFunc("/api/indicators", s.handleIndicators).Methods(http.MethodGet)
	s.router.HandleFunc("/api/model", s.handleModel).Methods(http.MethodGet)
	s.router.HandleFunc("/api/balances", s.handleBalances).Methods(http.MethodGet)
	s.router.HandleFunc("/ws/status", s.handleStatusStream)

	return s
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on cfg.Addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s.cfg.Addr == "" {
		return errors.New(errors.ErrCodeMissingParameter, "api address is empty")
	}

	listener, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to listen on %s", s.cfg.Addr)
	}

	return s.Serve(ctx, listener)
}

// Serve serves on an existing listener until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	httpServer := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	serveErr := make(chan error, 1)

	go func() {
		s.logger.Info("API server listening", zap.String("addr", listener.Addr().String()))
		serveErr <- httpServer.Serve(listener)
	}()

	select {
	case err := <-serveErr:
		if err != nil && err != http.ErrServerClosed {
			return errors.Wrap(errors.ErrCodeUnknown, "api server failed", err)
		}

		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(errors.ErrCodeUnknown, "api server shutdown failed", err)
	}

	<-serveErr

	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	healthy := true

	for _, id := range s.provider.Strategies() {
		status, err := s.provider.GetStrategyStatus(id)
		if err != nil || status.Halted || !status.Metrics.Healthy {
			healthy = false
		}
	}

	code := http.StatusOK
	if !healthy {
		code = http.StatusServiceUnavailable
	}

	s.writeJSON(w, code, map[string]any{
		"healthy": healthy,
		"time":    s.provider.Now(),
	})
}

func (s *Server) handleStrategies(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"strategies": s.provider.Strategies(),
		"symbols":    s.provider.Symbols(),
	})
}

func (s *Server) handleStrategy(w http.ResponseWriter, r *http.Request) {
	id := types.StrategyID(mux.Vars(r)["id"])

	status, err := s.provider.GetStrategyStatus(id)
	if err != nil {
		s.writeError(w, err)

		return
	}

	s.writeJSON(w, http.StatusOK, status)
}

func (s *Server) handleMarket(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.provider.GetMarketData())
}

func (s *Server) handleSentiment(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.provider.GetSentimentData())
}

func (s *Server) handleIndicators(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.provider.GetIndicators())
}

func (s *Server) handleModel(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.provider.GetModelState())
}

func (s *Server) handleBalances(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), balancesTimeout)
	defer cancel()

	balances, err := s.provider.GetBalances(ctx)
	if err != nil {
		s.writeError(w, err)

		return
	}

	s.writeJSON(w, http.StatusOK, balances)
}

func (s *Server) handleStatusStream(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))

		return
	}
	defer conn.Close()

	// the read loop only exists to notice the client going away
	closed := make(chan struct{})

	go func() {
		defer close(closed)

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(s.cfg.StatusInterval)
	defer ticker.Stop()

	for {
		if err := s.pushStatus(conn); err != nil {
			s.logger.Debug("status stream closed", zap.Error(err))

			return
		}

		select {
		case <-r.Context().Done():
			return
		case <-closed:
			return
		case <-ticker.C:
		}
	}
}

func (s *Server) pushStatus(conn *websocket.Conn) error {
	msg := StatusMessage{
		Time:       s.provider.Now(),
		Strategies: make(map[types.StrategyID]types.StrategyStatus),
	}

	for _, id := range s.provider.Strategies() {
		status, err := s.provider.GetStrategyStatus(id)
		if err != nil {
			continue
		}

		msg.Strategies[id] = status
	}

	if err := conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}

	return conn.WriteJSON(msg)
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Warn("failed to write response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)

	s.writeJSON(w, httpStatus(code), errorResponse{
		Code:    code,
		Message: err.Error(),
	})
}

func httpStatus(code errors.ErrorCode) int {
	switch code {
	case errors.ErrCodeUnknownStrategy:
		return http.StatusNotFound
	case errors.ErrCodeInvalidParameter, errors.ErrCodeMissingParameter:
		return http.StatusBadRequest
	case errors.ErrCodeUnsupportedExchange:
		return http.StatusNotImplemented
	case errors.ErrCodeExchangeRequestFailed, errors.ErrCodeDataUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
