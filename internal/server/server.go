package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/rpc/v2"
	rpcjson "github.com/gorilla/rpc/v2/json"
	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/muurk/devscan/internal/logging"
	"github.com/muurk/devscan/internal/scanner"
)

// Config holds the server configuration
type Config struct {
	Addr     string
	CertPath string // Optional; serves HTTPS when set together with KeyPath
	KeyPath  string

	// Scan holds the defaults for scans requested over RPC.
	Scan scanner.Config
}

// Server exposes scans over JSON-RPC and streams their progress over a
// websocket.
type Server struct {
	config     *Config
	tlsConfig  *tls.Config
	httpServer *http.Server
	hub        *Hub

	busy    atomic.Bool
	scans   atomic.Int64
	devices atomic.Int64

	newScanner func(cfg scanner.Config) *scanner.Scanner
}

// New creates a new Server instance
func New(config *Config) (*Server, error) {
	if (config.CertPath == "") != (config.KeyPath == "") {
		return nil, fmt.Errorf("both a TLS certificate and key are required")
	}

	var tlsConfig *tls.Config
	if config.CertPath != "" {
		var err error
		tlsConfig, err = NewTLSConfig(config.CertPath, config.KeyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create TLS config: %w", err)
		}
	}

	s := &Server{
		config:    config,
		tlsConfig: tlsConfig,
		hub:       NewHub(),
		newScanner: func(cfg scanner.Config) *scanner.Scanner {
			sc := scanner.New(cfg)
			sc.Out = nil
			return sc
		},
	}
	s.httpServer = &http.Server{
		Addr:              config.Addr,
		Handler:           s.Handler(),
		TLSConfig:         tlsConfig,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

// Handler returns the HTTP handler serving /rpc and /events.
func (s *Server) Handler() http.Handler {
	rpcServer := rpc.NewServer()
	rpcServer.RegisterCodec(rpcjson.NewCodec(), "application/json")
	if err := rpcServer.RegisterService(&ScanService{server: s}, ""); err != nil {
		// Only fails if ScanService has no exported methods.
		panic(err)
	}

	mux := http.NewServeMux()
	mux.Handle("/rpc", rpcServer)
	mux.Handle("/events", s.hub)
	return logRequests(mux)
}

// Start starts the server and blocks until shutdown
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.Addr, err)
	}
	if s.tlsConfig != nil {
		listener = tls.NewListener(listener, s.tlsConfig)
	}

	logging.Info("Starting devscan control server",
		zap.String("addr", listener.Addr().String()),
		zap.Any("tls_info", GetTLSInfo(s.tlsConfig)),
		zap.Int("default_threads", s.config.Scan.Threads),
	)

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.httpServer.Serve(listener)
	}()

	// Wait for shutdown signal or error
	select {
	case <-sigChan:
		logging.Info("Shutdown signal received, stopping server...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.Shutdown(ctx)
	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down server...")

	// Hijacked websocket connections are not tracked by http.Server.
	s.hub.Close()

	err := s.httpServer.Shutdown(ctx)
	if errors.Is(err, context.DeadlineExceeded) {
		logging.Warn("Shutdown timeout, forcing close")
		err = s.httpServer.Close()
	}

	logging.Sync()
	return err
}

// Stats is a snapshot of the server's counters.
type Stats struct {
	Busy    bool  `json:"busy"`
	Scans   int64 `json:"scans"`
	Devices int64 `json:"devices"`
	Clients int   `json:"clients"`
}

// Stats returns the server's counters.
func (s *Server) Stats() Stats {
	return Stats{
		Busy:    s.busy.Load(),
		Scans:   s.scans.Load(),
		Devices: s.devices.Load(),
		Clients: s.hub.ClientCount(),
	}
}
