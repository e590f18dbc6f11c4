package stub

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

	"go.uber.org/zap"

	"github.com/muurk/ceph-telemetry/internal/logging"
)

// Config holds the stub server configuration
type Config struct {
	Host        string
	Port        int
	Credentials Credentials
	TLS         bool   // serve HTTPS with a self-signed certificate
	CertPath    string // optional certificate file (with KeyPath) instead of generating one
	KeyPath     string
}

// Server runs the stub dashboard API
type Server struct {
	config    *Config
	state     *State
	tlsConfig *tls.Config
	http      *http.Server
	listener  net.Listener
}

// New creates a server around state. A nil state gets NewState().
func New(config *Config, state *State) (*Server, error) {
	if state == nil {
		state = NewState()
	}

	var tlsConfig *tls.Config
	if config.TLS {
		var err error
		if config.CertPath != "" {
			tlsConfig, err = NewTLSConfig(config.CertPath, config.KeyPath)
		} else {
			logging.Info("Generating self-signed certificate")
			tlsConfig, err = GenerateTLSConfig([]string{"localhost", config.Host})
		}
		if err != nil {
			return nil, fmt.Errorf("failed to create TLS config: %w", err)
		}
	}

	return &Server{
		config:    config,
		state:     state,
		tlsConfig: tlsConfig,
		http: &http.Server{
			Handler:           NewHandler(state, config.Credentials),
			ReadHeaderTimeout: 10 * time.Second,
		},
	}, nil
}

// Listen binds the listening socket. Start calls it when needed.
func (s *Server) Listen() error {
	addr := net.JoinHostPort(s.config.Host, fmt.Sprint(s.config.Port))

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	if s.tlsConfig != nil {
		listener = tls.NewListener(listener, s.tlsConfig)
	}
	s.listener = listener

	logging.Info("Stub dashboard listening",
		zap.String("addr", listener.Addr().String()),
		zap.Bool("tls", s.tlsConfig != nil),
		zap.Bool("auth", s.config.Credentials.Username != ""),
	)
	return nil
}

// URL returns the base URL clients should use
func (s *Server) URL() string {
	scheme := "http"
	if s.tlsConfig != nil {
		scheme = "https"
	}
	addr := net.JoinHostPort(s.config.Host, fmt.Sprint(s.config.Port))
	if s.listener != nil {
		addr = s.listener.Addr().String()
	}
	return scheme + "://" + addr
}

// Serve handles requests until the server is shut down
func (s *Server) Serve() error {
	if s.listener == nil {
		if err := s.Listen(); err != nil {
			return err
		}
	}
	if err := s.http.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Start serves and blocks until SIGINT/SIGTERM or a serve error
func (s *Server) Start() error {
	if s.listener == nil {
		if err := s.Listen(); err != nil {
			return err
		}
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.Serve()
	}()

	select {
	case <-sigChan:
		logging.Info("Shutdown signal received, stopping server...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.Shutdown(ctx)
	case err := <-errChan:
		return err
	}
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down stub dashboard...")
	err := s.http.Shutdown(ctx)
	if errors.Is(err, context.DeadlineExceeded) {
		logging.Warn("Shutdown timeout, forcing close")
		err = s.http.Close()
	}
	logging.Sync()
	return err
}

// State returns the backend state served by s
func (s *Server) State() *State {
	return s.state
}
