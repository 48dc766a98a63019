// ABOUTME: WebSocket client for the whisper service
// ABOUTME: Sends finalize requests and routes responses back to their callers by request ID
package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/vitruviano/whisper-go/internal/gift"
	"github.com/vitruviano/whisper-go/internal/protocol"
	"github.com/vitruviano/whisper-go/internal/version"
	"go.uber.org/zap"
)

// ErrClosed is returned for requests on a closed client
var ErrClosed = errors.New("client closed")

// Config holds client configuration
type Config struct {
	ServerAddr string
	Logger     *zap.Logger
}

// Client is a connection to a whisper service
type Client struct {
	config Config
	logger *zap.Logger

	conn    *websocket.Conn
	writeMu sync.Mutex

	mu        sync.Mutex
	pending   map[string]chan protocol.GenerateResponse
	connected bool
	readErr   error

	done chan struct{}
}

// NewClient creates a new WebSocket client
func NewClient(config Config) *Client {
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		config:  config,
		logger:  logger,
		pending: make(map[string]chan protocol.GenerateResponse),
		done:    make(chan struct{}),
	}
}

// Connect dials the service WebSocket endpoint
func (c *Client) Connect(ctx context.Context) error {
	u := url.URL{Scheme: "ws", Host: c.config.ServerAddr, Path: "/ws"}
	c.logger.Info("Connecting to whisper service", zap.String("url", u.String()))

	header := http.Header{}
	header.Set("User-Agent", version.UserAgent())

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), header)
	if err != nil {
		return fmt.Errorf("dial failed: %w", err)
	}

	c.mu.Lock()
	c.conn = conn
	c.connected = true
	c.mu.Unlock()

	go c.readMessages()
	return nil
}

// Finalize asks the service to voice message and waits for the answer
func (c *Client) Finalize(ctx context.Context, message string, mode gift.Mode) (*protocol.GenerateResponse, error) {
	req := protocol.GenerateRequest{
		RequestID: uuid.New().String(),
		Action:    protocol.ActionFinalize,
		Message:   message,
		Mode:      string(mode),
	}

	ch := make(chan protocol.GenerateResponse, 1)

	c.mu.Lock()
	if !c.connected {
		err := c.readErr
		c.mu.Unlock()
		if err == nil {
			err = ErrClosed
		}
		return nil, err
	}
	c.pending[req.RequestID] = ch
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.pending, req.RequestID)
		c.mu.Unlock()
	}()

	if err := c.sendJSON(req); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	select {
	case resp := <-ch:
		if !resp.Success {
			return &resp, fmt.Errorf("service error: %s", resp.Error)
		}
		return &resp, nil
	case <-c.done:
		return nil, ErrClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Synthesize voices text through the service
func (c *Client) Synthesize(ctx context.Context, text string, mode gift.Mode) (string, error) {
	resp, err := c.Finalize(ctx, text, mode)
	if err != nil {
		return "", err
	}
	return resp.AudioBase64, nil
}

// Download fetches the exported WAV for a gift over HTTP
func (c *Client) Download(ctx context.Context, giftID string, w io.Writer) error {
	u := url.URL{Scheme: "http", Host: c.config.ServerAddr, Path: "/api/gifts/" + giftID + "/whisper.wav"}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", version.UserAgent())

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download failed: HTTP %d", resp.StatusCode)
	}

	_, err = io.Copy(w, resp.Body)
	return err
}

// readMessages routes responses to waiting callers
func (c *Client) readMessages() {
	defer c.shutdown()

	for {
		var resp protocol.GenerateResponse
		if err := c.conn.ReadJSON(&resp); err != nil {
			if !errors.Is(err, net.ErrClosed) && websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.logger.Warn("Read error", zap.Error(err))
			}
			c.mu.Lock()
			c.readErr = fmt.Errorf("connection lost: %w", err)
			c.mu.Unlock()
			return
		}

		c.mu.Lock()
		ch, ok := c.pending[resp.RequestID]
		c.mu.Unlock()

		if !ok {
			c.logger.Debug("Dropping unmatched response", zap.String("request", resp.RequestID))
			continue
		}
		ch <- resp
	}
}

// sendJSON writes one frame
func (c *Client) sendJSON(v interface{}) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return c.conn.WriteJSON(v)
}

// shutdown marks the client disconnected and releases waiters
func (c *Client) shutdown() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.connected {
		return
	}
	c.connected = false
	close(c.done)
}

// Close closes the connection
func (c *Client) Close() error {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()

	if conn == nil {
		return nil
	}

	c.writeMu.Lock()
	conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	c.writeMu.Unlock()

	err := conn.Close()
	<-c.done
	return err
}
