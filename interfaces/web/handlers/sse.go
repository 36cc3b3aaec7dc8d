package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"spfs/domain/events"
	"spfs/infrastructure/metrics"
	"spfs/logging"
)

var errClientClosed = errors.New("client connection closed")

// SSEClient represents a connected Server-Sent Events client.
type SSEClient struct {
	id       string
	writer   http.ResponseWriter
	flusher  http.Flusher
	done     chan struct{}
	once     sync.Once
	mu       sync.Mutex
	lastSent time.Time
}

// ID returns the key the client is registered under.
func (c *SSEClient) ID() string {
	return c.id
}

func (c *SSEClient) close() {
	c.once.Do(func() { close(c.done) })
}

// changeMessage is the data payload of a "library-changed" event.
type changeMessage struct {
	Op        string `json:"op"`
	Path      string `json:"path"`
	Target    string `json:"target,omitempty"`
	Timestamp string `json:"timestamp"`
}

// SSEManager manages Server-Sent Events connections and broadcasts library changes.
type SSEManager struct {
	clients   map[string]*SSEClient
	mu        sync.RWMutex
	logger    *logging.Logger
	keepAlive time.Duration
}

// NewSSEManager creates a new SSE connection manager. The keep-alive routine stops when ctx ends.
func NewSSEManager(ctx context.Context) *SSEManager {
	manager := &SSEManager{
		clients:   make(map[string]*SSEClient),
		logger:    logging.Default().WithComponent("sse_manager"),
		keepAlive: 30 * time.Second,
	}

	go manager.cleanupRoutine(ctx)

	return manager
}

// AddClient adds a new SSE client connection. An id already in use gets a
// unique suffix so each connection keeps its own entry.
func (s *SSEManager) AddClient(clientID string, w http.ResponseWriter) *SSEClient {
	flusher, ok := w.(http.Flusher)
	if !ok {
		s.logger.Error("Response writer does not support flushing")
		return nil
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	client := &SSEClient{
		writer:   w,
		flusher:  flusher,
		done:     make(chan struct{}),
		lastSent: time.Now(),
	}

	s.mu.Lock()
	if _, taken := s.clients[clientID]; taken {
		clientID = clientID + "_" + uuid.NewString()
	}
	client.id = clientID
	s.clients[clientID] = client
	total := len(s.clients)
	s.mu.Unlock()
	metrics.SetSSEClients(total)

	s.logger.Info("SSE client connected", "client_id", clientID, "total_clients", total)
	return client
}

// RemoveClient removes an SSE client connection
func (s *SSEManager) RemoveClient(clientID string) {
	s.mu.RLock()
	client := s.clients[clientID]
	s.mu.RUnlock()

	if client != nil {
		s.detach(client)
	}
}

// detach unregisters client, if it is still the registered entry for its id, and closes it.
func (s *SSEManager) detach(client *SSEClient) {
	s.mu.Lock()
	registered := s.clients[client.id] == client
	if registered {
		delete(s.clients, client.id)
	}
	total := len(s.clients)
	s.mu.Unlock()

	client.close()
	if registered {
		metrics.SetSSEClients(total)
		s.logger.Info("SSE client disconnected", "client_id", client.id)
	}
}

// ClientCount returns the number of connected clients.
func (s *SSEManager) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// CloseAll disconnects every client.
func (s *SSEManager) CloseAll() {
	s.mu.RLock()
	clients := make([]*SSEClient, 0, len(s.clients))
	for _, client := range s.clients {
		clients = append(clients, client)
	}
	s.mu.RUnlock()

	for _, client := range clients {
		s.detach(client)
	}
}

// BroadcastChange sends a "library-changed" event to all connected clients.
func (s *SSEManager) BroadcastChange(event events.ChangeEvent) {
	payload, err := json.Marshal(changeMessage{
		Op:        string(event.Operation.Kind),
		Path:      event.Operation.Path,
		Target:    event.Operation.Target,
		Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
	})
	if err != nil {
		s.logger.Error("Failed to encode change event", "error", err)
		return
	}
	s.broadcast("library-changed", string(payload))
}

func (s *SSEManager) broadcast(event, data string) {
	s.mu.RLock()
	if len(s.clients) == 0 {
		s.mu.RUnlock()
		return
	}
	clientList := make([]*SSEClient, 0, len(s.clients))
	for _, client := range s.clients {
		clientList = append(clientList, client)
	}
	s.mu.RUnlock()

	failedClients := []*SSEClient{}
	for _, client := range clientList {
		if err := s.sendToClient(client, event, data); err != nil {
			s.logger.Warn("Failed to send event to client",
				"client_id", client.id,
				"event", event,
				"error", err)
			failedClients = append(failedClients, client)
		}
	}

	for _, client := range failedClients {
		s.detach(client)
	}

	s.logger.Debug("Broadcasted event",
		"event", event,
		"total_clients", len(clientList),
		"failed", len(failedClients))
}

// sendToClient sends an SSE message to a specific client.
// done is checked under client.mu so nothing is written once the handler has returned.
func (s *SSEManager) sendToClient(client *SSEClient, event, data string) error {
	var message string
	if event == "keepalive" {
		// comments keep the connection open without firing listeners
		message = fmt.Sprintf(": %s\n\n", data)
	} else {
		message = fmt.Sprintf("event: %s\ndata: %s\n\n", event, data)
	}

	client.mu.Lock()
	defer client.mu.Unlock()

	select {
	case <-client.done:
		return errClientClosed
	default:
	}

	if _, err := client.writer.Write([]byte(message)); err != nil {
		return fmt.Errorf("write error: %w", err)
	}
	client.flusher.Flush()
	client.lastSent = time.Now()

	return nil
}

// SendKeepAlive sends keep-alive comments to all clients
func (s *SSEManager) SendKeepAlive() {
	s.broadcast("keepalive", time.Now().UTC().Format(time.RFC3339))
}

func (s *SSEManager) cleanupRoutine(ctx context.Context) {
	ticker := time.NewTicker(s.keepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.CloseAll()
			return
		case <-ticker.C:
			s.SendKeepAlive()
		}
	}
}

// HandleSSEConnection handles the SSE endpoint
func (s *SSEManager) HandleSSEConnection(w http.ResponseWriter, r *http.Request) {
	clientID := r.URL.Query().Get("client_id")
	if clientID == "" {
		clientID = "client_" + uuid.NewString()
	}

	client := s.AddClient(clientID, w)
	if client == nil {
		http.Error(w, "Failed to establish SSE connection", http.StatusInternalServerError)
		return
	}

	defer func() {
		s.detach(client)
		// wait out any in-flight write before the writer is released
		client.mu.Lock()
		client.mu.Unlock()
	}()

	if err := s.sendToClient(client, "keepalive", "connected "+client.id); err != nil {
		s.logger.Error("Failed to send initial keep-alive", "client_id", client.id, "error", err)
		return
	}

	select {
	case <-r.Context().Done():
	case <-client.done:
	}
}
