package stream

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"backend-ecocommute/internal/logging"

	"github.com/redis/go-redis/v9"
)

const (
	channelPrefix  = "commute:"
	channelSuffix  = ":live"
	channelPattern = channelPrefix + "*" + channelSuffix
)

// Hub fans live tracking updates out to the websocket clients watching a
// session. With redis configured every update goes through the pub/sub
// channel, so all API instances deliver it exactly once.
type Hub struct {
	redis   *redis.Client
	logger  *slog.Logger
	clients map[string]map[*Client]struct{}
	mu      sync.RWMutex

	cancel context.CancelFunc
	done   chan struct{}
}

type Client struct {
	SessionID string
	Send      chan []byte
}

func NewHub(ctx context.Context, redisClient *redis.Client, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = logging.Discard()
	}
	h := &Hub{
		redis:   redisClient,
		logger:  logger,
		clients: map[string]map[*Client]struct{}{},
	}

	if redisClient != nil {
		subCtx, cancel := context.WithCancel(ctx)
		pubsub := redisClient.PSubscribe(subCtx, channelPattern)
		if _, err := pubsub.Receive(subCtx); err != nil {
			logger.Warn("redis subscribe failed, streaming locally", "error", err)
			_ = pubsub.Close()
			cancel()
			h.redis = nil
			return h
		}
		h.cancel = cancel
		h.done = make(chan struct{})
		go h.subscribeRedis(subCtx, pubsub)
	}
	return h
}

// Close stops the redis subscription, if any.
func (h *Hub) Close() {
	if h.cancel == nil {
		return
	}
	h.cancel()
	<-h.done
}

func (h *Hub) Register(sessionID string) *Client {
	client := &Client{
		SessionID: sessionID,
		Send:      make(chan []byte, 64),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[sessionID] == nil {
		h.clients[sessionID] = map[*Client]struct{}{}
	}
	h.clients[sessionID][client] = struct{}{}
	return client
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if sessionClients, ok := h.clients[client.SessionID]; ok {
		if _, registered := sessionClients[client]; !registered {
			return
		}
		delete(sessionClients, client)
		if len(sessionClients) == 0 {
			delete(h.clients, client.SessionID)
		}
		close(client.Send)
	}
}

// Broadcast delivers payload to the session's watchers. Slow clients drop
// messages rather than block the tracker.
func (h *Hub) Broadcast(sessionID string, payload []byte) {
	if h.redis != nil {
		err := h.redis.Publish(context.Background(), redisChannel(sessionID), payload).Err()
		if err == nil {
			return
		}
		h.logger.Warn("redis publish failed, delivering locally", "session_id", sessionID, "error", err)
	}
	h.deliver(sessionID, payload)
}

func (h *Hub) deliver(sessionID string, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients[sessionID] {
		select {
		case client.Send <- payload:
		default:
		}
	}
}

func (h *Hub) subscribeRedis(ctx context.Context, pubsub *redis.PubSub) {
	defer close(h.done)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			sessionID := sessionIDFromChannel(msg.Channel)
			if sessionID == "" {
				continue
			}
			h.deliver(sessionID, []byte(msg.Payload))
		}
	}
}

func redisChannel(sessionID string) string {
	return channelPrefix + sessionID + channelSuffix
}

func sessionIDFromChannel(ch string) string {
	if !strings.HasPrefix(ch, channelPrefix) || !strings.HasSuffix(ch, channelSuffix) {
		return ""
	}
	if len(ch) <= len(channelPrefix)+len(channelSuffix) {
		return ""
	}
	return ch[len(channelPrefix) : len(ch)-len(channelSuffix)]
}
