package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/school-console/internal/dto"
	"github.com/noah-isme/school-console/internal/observability"
)

const (
	activityBufferSize   = 16
	activityRedisChannel = "school-console:activity"
)

// ActivityStream fans recorded activity out to live subscribers. Entries are
// relayed between console instances over NATS, or over Redis pub/sub when no
// NATS connection is configured. It satisfies ActivityPublisher.
type ActivityStream struct {
	redis  *redis.Client
	nats   *nats.Conn
	nodeID string
	logger zerolog.Logger

	mu          sync.RWMutex
	subscribers map[chan dto.ActivityResponse]struct{}
}

type activityEvent struct {
	Source string               `json:"source"`
	Entry  dto.ActivityResponse `json:"entry"`
	SentAt time.Time            `json:"sent_at"`
}

// NewActivityStream constructs a stream. Both relays are optional.
func NewActivityStream(redisClient *redis.Client, natsConn *nats.Conn, logger zerolog.Logger) *ActivityStream {
	return &ActivityStream{
		redis:       redisClient,
		nats:        natsConn,
		nodeID:      uuid.NewString(),
		logger:      logger.With().Str("component", "activity_stream").Logger(),
		subscribers: make(map[chan dto.ActivityResponse]struct{}),
	}
}

// Start consumes the relay until ctx is cancelled.
func (s *ActivityStream) Start(ctx context.Context) {
	switch {
	case s.nats != nil:
		s.consumeNATS(ctx)
	case s.redis != nil:
		go s.consumeRedis(ctx)
	}
}

// Publish delivers an encoded entry to local subscribers and the relay.
func (s *ActivityStream) Publish(subject string, data []byte) error {
	var entry dto.ActivityResponse
	if err := json.Unmarshal(data, &entry); err != nil {
		return err
	}
	s.broadcast(entry)

	payload, err := json.Marshal(activityEvent{Source: s.nodeID, Entry: entry, SentAt: time.Now().UTC()})
	if err != nil {
		return err
	}

	switch {
	case s.nats != nil:
		return s.nats.Publish(subject, payload)
	case s.redis != nil:
		return s.redis.Publish(context.Background(), activityRedisChannel, payload).Err()
	default:
		return nil
	}
}

// Subscribe registers a live listener. The returned func must be called once
// the listener goes away.
func (s *ActivityStream) Subscribe() (<-chan dto.ActivityResponse, func()) {
	ch := make(chan dto.ActivityResponse, activityBufferSize)

	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	s.mu.Unlock()
	observability.ActivityStreamClients().Inc()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subscribers, ch)
			close(ch)
			s.mu.Unlock()
			observability.ActivityStreamClients().Dec()
		})
	}
}

func (s *ActivityStream) broadcast(entry dto.ActivityResponse) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for ch := range s.subscribers {
		select {
		case ch <- entry:
		default:
			// slow subscriber, drop
		}
	}
}

func (s *ActivityStream) consumeRedis(ctx context.Context) {
	pubsub := s.redis.Subscribe(ctx, activityRedisChannel)
	defer func() { _ = pubsub.Close() }()

	for {
		msg, err := pubsub.ReceiveMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, redis.ErrClosed) {
				return
			}
			s.logger.Error().Err(err).Msg("activity redis subscription closed")
			return
		}
		s.handleEvent([]byte(msg.Payload))
	}
}

func (s *ActivityStream) consumeNATS(ctx context.Context) {
	sub, err := s.nats.Subscribe(ActivitySubject, func(msg *nats.Msg) {
		s.handleEvent(msg.Data)
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to subscribe to activity subject")
		return
	}

	go func() {
		<-ctx.Done()
		if err := sub.Drain(); err != nil {
			s.logger.Warn().Err(err).Msg("failed to drain activity subscription")
		}
	}()
}

// handleEvent relays an entry from another node. Own events were already
// delivered by Publish.
func (s *ActivityStream) handleEvent(payload []byte) {
	var event activityEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		s.logger.Warn().Err(err).Msg("invalid activity event payload")
		return
	}
	if event.Source == s.nodeID {
		return
	}
	s.broadcast(event.Entry)
}
