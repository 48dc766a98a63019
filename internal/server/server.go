// ABOUTME: Whisper service implementation
// ABOUTME: Serves generation and export over HTTP and WebSocket, advertises itself via mDNS
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/vitruviano/whisper-go/internal/discovery"
	"github.com/vitruviano/whisper-go/internal/gift"
	"github.com/vitruviano/whisper-go/internal/synth"
	"go.uber.org/zap"
)

// Config holds server configuration
type Config struct {
	Port       int
	Name       string
	EnableMDNS bool
	UseTUI     bool

	// Synth voices finalize requests
	Synth synth.Synthesizer

	// Store holds generated gifts (default: new empty store)
	Store *gift.Store

	// SynthTimeout bounds each synthesis call (default: 60s)
	SynthTimeout time.Duration

	Logger *zap.Logger
}

// Server is the whisper service
type Server struct {
	config   Config
	serverID string
	logger   *zap.Logger
	store    *gift.Store

	upgrader websocket.Upgrader

	httpServer *http.Server
	mux        *http.ServeMux

	// WebSocket connections
	clients   map[string]*Client
	clientsMu sync.RWMutex

	mdnsManager *discovery.Manager

	tui       *ServerTUI
	startTime time.Time
	lastGift  string

	stopChan   chan struct{}
	stopOnce   sync.Once
	shutdownMu sync.RWMutex
	isShutdown bool
	wg         sync.WaitGroup
}

// Client is a connected WebSocket peer
type Client struct {
	ID       string
	Addr     string
	Conn     *websocket.Conn
	Requests int

	sendChan chan interface{}
	mu       sync.Mutex
}

// New creates a new server instance
func New(config Config) *Server {
	if config.Store == nil {
		config.Store = gift.NewStore()
	}
	if config.SynthTimeout == 0 {
		config.SynthTimeout = 60 * time.Second
	}
	if config.Logger == nil {
		config.Logger = zap.NewNop()
	}
	if config.Name == "" {
		config.Name = "Whisper"
	}

	s := &Server{
		config:   config,
		serverID: uuid.New().String(),
		logger:   config.Logger,
		store:    config.Store,
		mux:      http.NewServeMux(),
		upgrader: websocket.Upgrader{
			// Browsers on other origins call the API directly, same as the CORS policy
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients:   make(map[string]*Client),
		startTime: time.Now(),
		stopChan:  make(chan struct{}),
	}

	s.mux.HandleFunc("/api/generate", s.handleGenerate)
	s.mux.HandleFunc("GET /api/gifts/{id}/whisper.wav", s.handleExport)
	s.mux.HandleFunc("GET /ws", s.handleWebSocket)

	return s
}

// Handler returns the HTTP handler serving every endpoint
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Store returns the gift registry
func (s *Server) Store() *gift.Store {
	return s.store
}

// Start serves until Stop, TUI quit or a listener error
func (s *Server) Start() error {
	if s.config.Synth == nil {
		return errors.New("server requires a synthesizer")
	}

	if s.config.UseTUI {
		s.tui = NewServerTUI()

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			if err := s.tui.Start(s.config.Name, s.config.Port); err != nil {
				s.logger.Warn("Server TUI exited", zap.Error(err))
			}
		}()
	}

	s.logger.Info("Server starting", zap.String("name", s.config.Name), zap.String("id", s.serverID))

	addr := fmt.Sprintf(":%d", s.config.Port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		if s.tui != nil {
			s.tui.Stop()
		}
		s.wg.Wait()
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	if s.config.EnableMDNS {
		s.mdnsManager = discovery.NewManager(discovery.Config{
			ServiceName: s.config.Name,
			Port:        s.config.Port,
			Logger:      s.logger,
		})

		if err := s.mdnsManager.Advertise(); err != nil {
			s.logger.Warn("Failed to start mDNS advertisement", zap.Error(err))
		}
	}

	s.httpServer = &http.Server{
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		if err := s.httpServer.Serve(listener); err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	s.logger.Info("Whisper service listening", zap.String("addr", listener.Addr().String()))
	s.updateTUI()

	var tuiQuitChan <-chan struct{}
	if s.tui != nil {
		tuiQuitChan = s.tui.QuitChan()
	}

	var serverErr error
	select {
	case <-s.stopChan:
		s.logger.Info("Server shutting down")
	case <-tuiQuitChan:
		s.logger.Info("TUI quit requested, shutting down")
	case err := <-errChan:
		s.logger.Error("HTTP server error", zap.Error(err))
		serverErr = err
	}

	s.shutdownMu.Lock()
	s.isShutdown = true
	s.shutdownMu.Unlock()

	if s.tui != nil {
		s.tui.Stop()
	}

	if s.mdnsManager != nil {
		s.mdnsManager.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Warn("HTTP server shutdown error", zap.Error(err))
	}
	s.closeClients()

	s.wg.Wait()
	s.logger.Info("Server stopped cleanly")

	if serverErr != nil {
		return fmt.Errorf("HTTP server failed: %w", serverErr)
	}
	return nil
}

// Stop stops the server
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopChan)
	})
}

// shuttingDown reports whether new work should be rejected
func (s *Server) shuttingDown() bool {
	s.shutdownMu.RLock()
	defer s.shutdownMu.RUnlock()
	return s.isShutdown
}

// closeClients closes hijacked WebSocket connections that Shutdown does not track
func (s *Server) closeClients() {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	for _, c := range s.clients {
		c.Conn.Close()
	}
}
