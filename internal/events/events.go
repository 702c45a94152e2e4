package events

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"
	"time"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"github.com/valkey-io/valkey-go"
)

type Channel string

func (c Channel) String() string {
	return string(c)
}

const (
	NOTIFICATION_CHANNEL       Channel = "notifications"
	CACHE_INVALIDATION_CHANNEL Channel = "cache.invalidation"
)

type MessageType string

const (
	NOTIFICATION       MessageType = "notification"
	CACHE_INVALIDATION MessageType = "cache_invalidation"
)

const (
	PUBLISH_TIMEOUT       = 5 * time.Second
	RECONNECT_MIN_BACKOFF = time.Second
	RECONNECT_MAX_BACKOFF = 30 * time.Second
)

type Event struct {
	ID        string         `json:"id"`
	Type      MessageType    `json:"type"`
	Channel   Channel        `json:"channel"`
	UserID    *uuid.UUID     `json:"userId,omitempty"`
	Data      map[string]any `json:"data"`
	Timestamp time.Time      `json:"timestamp"`
}

type EventHandler func(event Event) error

// EventBus fans events out across instances through valkey pub/sub. Every instance,
// the publisher included, receives events from its subscription only, so each handler
// sees an event once. Without a client the bus delivers to local handlers directly.
type EventBus struct {
	client    valkey.Client
	logger    logger.Logger
	handlers  map[Channel][]EventHandler
	listening map[Channel]bool
	mutex     sync.RWMutex
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

func New(client valkey.Client) *EventBus {
	ctx, cancel := context.WithCancel(context.Background())

	return &EventBus{
		client:    client,
		logger:    logger.New("EventBus"),
		handlers:  make(map[Channel][]EventHandler),
		listening: make(map[Channel]bool),
		ctx:       ctx,
		cancel:    cancel,
	}
}

func (eb *EventBus) Publish(ctx context.Context, channel Channel, event Event) error {
	log := eb.logger.TraceFromContext(ctx).Function("Publish")

	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if event.Channel == "" {
		event.Channel = channel
	}

	if eb.client == nil {
		eb.dispatch(channel, event)
		return nil
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return log.Err("failed to marshal event", err, "eventID", event.ID)
	}

	ctx, cancel := context.WithTimeout(ctx, PUBLISH_TIMEOUT)
	defer cancel()

	cmd := eb.client.B().Publish().Channel(channel.String()).Message(valkey.BinaryString(payload)).Build()
	if err := eb.client.Do(ctx, cmd).Error(); err != nil {
		return log.Err("failed to publish event", err, "channel", channel, "eventID", event.ID)
	}

	log.Debug("event published", "channel", channel, "eventID", event.ID, "type", event.Type)
	return nil
}

// Subscribe registers handler for channel. The first subscription to a channel starts its
// valkey listener.
func (eb *EventBus) Subscribe(channel Channel, handler EventHandler) {
	eb.mutex.Lock()
	eb.handlers[channel] = append(eb.handlers[channel], handler)
	startListener := eb.client != nil && !eb.listening[channel]
	eb.listening[channel] = true
	eb.mutex.Unlock()

	if startListener {
		eb.wg.Add(1)
		go eb.listen(channel)
	}
}

// dispatch runs every handler on its own goroutine. A failing or panicking handler is logged
// and never affects the others.
func (eb *EventBus) dispatch(channel Channel, event Event) {
	log := eb.logger.Function("dispatch")

	eb.mutex.RLock()
	handlers := slices.Clone(eb.handlers[channel])
	eb.mutex.RUnlock()

	for i, handler := range handlers {
		go func() {
			defer func() {
				if r := recover(); r != nil {
					log.Er("handler panicked", fmt.Errorf("%v", r), "channel", channel, "eventID", event.ID, "handler", i)
				}
			}()
			if err := handler(event); err != nil {
				log.Er("handler failed", err, "channel", channel, "eventID", event.ID, "handler", i)
			}
		}()
	}
}

// listen holds the channel subscription and re-subscribes with capped exponential backoff
// whenever the connection drops, until the bus is closed.
func (eb *EventBus) listen(channel Channel) {
	defer eb.wg.Done()
	log := eb.logger.Function("listen")

	backoff := RECONNECT_MIN_BACKOFF
	for {
		started := time.Now()
		err := eb.client.Receive(
			eb.ctx,
			eb.client.B().Subscribe().Channel(channel.String()).Build(),
			func(msg valkey.PubSubMessage) {
				var event Event
				if err := json.Unmarshal([]byte(msg.Message), &event); err != nil {
					log.Er("failed to decode event", err, "channel", channel)
					return
				}
				eb.dispatch(channel, event)
			},
		)
		if eb.ctx.Err() != nil {
			return
		}

		if time.Since(started) > RECONNECT_MAX_BACKOFF {
			backoff = RECONNECT_MIN_BACKOFF
		}
		log.Warn("subscription dropped, retrying", "channel", channel, "error", err, "backoff", backoff)

		select {
		case <-eb.ctx.Done():
			return
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, RECONNECT_MAX_BACKOFF)
	}
}

// Close stops every listener and waits for them to exit. Handlers already dispatched may still run.
func (eb *EventBus) Close() error {
	eb.cancel()
	eb.wg.Wait()
	eb.logger.Function("Close").Info("event bus closed")
	return nil
}

func (eb *EventBus) PublishCacheInvalidation(ctx context.Context, resourceType, resourceID string) error {
	return eb.Publish(ctx, CACHE_INVALIDATION_CHANNEL, Event{
		Type: CACHE_INVALIDATION,
		Data: map[string]any{
			"resourceType": resourceType,
			"resourceId":   resourceID,
		},
	})
}
