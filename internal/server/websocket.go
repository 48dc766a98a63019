// ABOUTME: WebSocket endpoint for the whisper service
// ABOUTME: One JSON response per request frame, written by a per-connection writer
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/vitruviano/whisper-go/internal/protocol"
	"go.uber.org/zap"
)

// handleWebSocket handles WebSocket connections
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if s.shuttingDown() {
		http.Error(w, "shutting down", http.StatusServiceUnavailable)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("WebSocket upgrade error", zap.Error(err))
		return
	}

	s.logger.Info("New WebSocket connection", zap.String("remote", r.RemoteAddr))
	s.handleConnection(conn, r.RemoteAddr)
}

// handleConnection manages a client connection. Requests are processed in
// order by one worker; its context ends when the client disconnects or the
// server stops.
func (s *Server) handleConnection(conn *websocket.Conn, addr string) {
	defer conn.Close()
	conn.SetReadLimit(maxRequestBytes)

	client := &Client{
		ID:       uuid.New().String(),
		Addr:     addr,
		Conn:     conn,
		sendChan: make(chan interface{}, 16),
	}

	s.clientsMu.Lock()
	s.clients[client.ID] = client
	s.clientsMu.Unlock()
	s.updateTUI()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		select {
		case <-s.stopChan:
			cancel()
		case <-ctx.Done():
		}
	}()

	writerDone := make(chan struct{})
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer close(writerDone)
		s.clientWriter(client)
	}()

	jobs := make(chan wsJob, 16)
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		s.requestWorker(ctx, client, jobs)
	}()

	defer func() {
		cancel()
		close(jobs)
		<-workerDone

		s.clientsMu.Lock()
		delete(s.clients, client.ID)
		s.clientsMu.Unlock()
		close(client.sendChan)
		<-writerDone
		s.logger.Info("Client disconnected", zap.String("remote", client.Addr))
		s.updateTUI()
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("WebSocket error", zap.Error(err))
			}
			return
		}

		req, err := protocol.DecodeRequest(data)
		if err == nil {
			client.mu.Lock()
			client.Requests++
			client.mu.Unlock()
		}

		select {
		case jobs <- wsJob{req: req, err: err}:
		case <-ctx.Done():
			return
		}
	}
}

// wsJob is one received frame: a decoded request or its decode error
type wsJob struct {
	req *protocol.GenerateRequest
	err error
}

// requestWorker answers jobs in arrival order
func (s *Server) requestWorker(ctx context.Context, client *Client, jobs <-chan wsJob) {
	for job := range jobs {
		if job.err != nil {
			client.sendChan <- protocol.GenerateResponse{Success: false, Error: job.err.Error()}
			continue
		}

		resp, err := s.process(ctx, job.req)
		if ctx.Err() != nil {
			s.logger.Debug("Dropping response for closed connection",
				zap.String("remote", client.Addr), zap.Error(err))
			continue
		}
		client.sendChan <- resp
	}
}

// clientWriter sends responses and keepalive pings to the client
func (s *Server) clientWriter(client *Client) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	const writeDeadline = 10 * time.Second

	for {
		select {
		case msg, ok := <-client.sendChan:
			if !ok {
				return
			}

			client.Conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := client.Conn.WriteJSON(msg); err != nil {
				s.logger.Warn("Error writing response", zap.Error(err))
				client.Conn.Close()
				// Drain so the reader never blocks on a dead connection
				for range client.sendChan {
				}
				return
			}

		case <-ticker.C:
			if err := client.Conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(writeDeadline)); err != nil {
				client.Conn.Close()
				for range client.sendChan {
				}
				return
			}
		}
	}
}
