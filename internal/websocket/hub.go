package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/Alpha-Bytes-Department/daissy-ai/internal/pkg/logger"

	"github.com/redis/go-redis/v9"
)

const clusterChannel = "cluster_events"

// Hub fans ingestion updates out to every connected client. Redis
// pub/sub relays the same messages across instances.
type Hub struct {
	clients map[*Client]bool

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	// Redis connection for cross-instance fan-out, may be nil
	rdb *redis.Client

	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		rdb:        rdb,
		logger:     log,
	}
}

func (h *Hub) Run() {
	if h.rdb != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", nil)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
			h.mu.Unlock()
		}
	}
}

// NotifyIngested tells every connected client that a recording finished
// indexing and is now searchable.
func (h *Hub) NotifyIngested(audioResourceId, filename string) {
	data, _ := json.Marshal(map[string]interface{}{
		"type": "audio_ingested",
		"data": map[string]string{
			"audio_resource_id": audioResourceId,
			"filename":          filename,
		},
	})

	h.broadcastLocal(data)

	// Relay to other instances
	if h.rdb != nil {
		payload, _ := json.Marshal(map[string]interface{}{
			"message": json.RawMessage(data),
		})
		h.rdb.Publish(context.Background(), clusterChannel, payload)
	}
}

func (h *Hub) broadcastLocal(data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		select {
		case client.Send <- data:
		default:
			h.logger.Warn("Hub", "Client send buffer full, dropping", nil)
		}
	}
}

func (h *Hub) subscribeToRedis() {
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, clusterChannel)
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		var payload struct {
			Message json.RawMessage `json:"message"`
		}
		if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
			h.logger.Warn("Hub", "redis message parse error", map[string]interface{}{"error": err.Error()})
			continue
		}
		h.broadcastLocal(payload.Message)
	}
}
