package ws

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/damoang/mediawall/internal/domain"
	"github.com/damoang/mediawall/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// DefaultChannel is the redis pub/sub channel shared by all instances.
const DefaultChannel = "mediawall:events"

// FeedTopic receives every media change.
const FeedTopic = "feed"

// MediaTopic receives changes to one media item and its comments.
func MediaTopic(mediaID string) string {
	return "media:" + mediaID
}

// Hub manages WebSocket clients and broadcasts content changes to them
type Hub struct {
	// Registered clients grouped by topic
	clients map[string]map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan *topicMessage

	mu          sync.RWMutex
	redisClient *redis.Client
	channel     string
	ctx         context.Context
	cancel      context.CancelFunc
}

type topicMessage struct {
	Topics []string        `json:"topics"`
	Event  json.RawMessage `json:"event"`
}

// NewHub creates a new Hub. With a nil redis client events stay local to
// this process.
func NewHub(redisClient *redis.Client, channel string) *Hub {
	if channel == "" {
		channel = DefaultChannel
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		clients:     make(map[string]map[*Client]bool),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		broadcast:   make(chan *topicMessage, 256),
		redisClient: redisClient,
		channel:     channel,
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Register adds a client to the hub
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.ctx.Done():
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	if h.redisClient != nil {
		go h.subscribeRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.topic] == nil {
				h.clients[client.topic] = make(map[*Client]bool)
			}
			h.clients[client.topic][client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			h.remove(client)
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.Lock()
			for _, topic := range msg.Topics {
				for client := range h.clients[topic] {
					select {
					case client.send <- msg.Event:
					default:
						// slow consumer
						h.remove(client)
					}
				}
			}
			h.mu.Unlock()

		case <-h.ctx.Done():
			return
		}
	}
}

// remove must be called with mu held.
func (h *Hub) remove(client *Client) {
	clients, ok := h.clients[client.topic]
	if !ok {
		return
	}
	if _, ok := clients[client]; ok {
		delete(clients, client)
		close(client.send)
		if len(clients) == 0 {
			delete(h.clients, client.topic)
		}
	}
}

// ClientCount returns the number of connected clients on topic.
func (h *Hub) ClientCount(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[topic])
}

// Publish fans a content change out to subscribers. With redis the event
// goes through the shared channel so every instance, this one included,
// delivers it. Publish never blocks; events are dropped when the hub is
// saturated.
func (h *Hub) Publish(ctx context.Context, event domain.ChangeEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		logger.GetLogger().Warn().Err(err).Str("id", event.ID).Msg("failed to encode change event")
		return
	}
	msg := &topicMessage{Topics: topicsFor(event), Event: data}

	if h.redisClient != nil {
		payload, err := json.Marshal(msg)
		if err == nil {
			err = h.redisClient.Publish(ctx, h.channel, payload).Err()
		}
		if err == nil {
			return
		}
		logger.GetLogger().Warn().Err(err).Str("channel", h.channel).Msg("redis publish failed, delivering locally")
	}
	h.deliver(msg)
}

func (h *Hub) deliver(msg *topicMessage) {
	select {
	case h.broadcast <- msg:
	default:
		logger.GetLogger().Warn().Strs("topics", msg.Topics).Msg("realtime hub saturated, event dropped")
	}
}

func topicsFor(event domain.ChangeEvent) []string {
	switch event.Kind {
	case domain.KindComment:
		if event.MediaID != "" {
			return []string{MediaTopic(event.MediaID)}
		}
		if c, ok := event.Data.(*domain.Comment); ok && c.MediaID != "" {
			return []string{MediaTopic(c.MediaID)}
		}
		return nil
	default:
		return []string{FeedTopic, MediaTopic(event.ID)}
	}
}

// subscribeRedis delivers events published by any instance to local clients
func (h *Hub) subscribeRedis() {
	pubsub := h.redisClient.Subscribe(h.ctx, h.channel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var tm topicMessage
			if err := json.Unmarshal([]byte(msg.Payload), &tm); err != nil {
				logger.GetLogger().Warn().Err(err).Msg("malformed realtime message")
				continue
			}
			h.deliver(&tm)
		case <-h.ctx.Done():
			return
		}
	}
}

// Stop gracefully shuts down the hub
func (h *Hub) Stop() {
	h.cancel()
}
