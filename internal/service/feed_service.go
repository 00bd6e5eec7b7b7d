package service

import (
	"context"

	"redoma-support-be/internal/pkg/logger"
	"redoma-support-be/pkg/events"
	pktNats "redoma-support-be/pkg/nats"
)

// FeedDelivery defines how matched row changes reach connected sockets.
// Implemented by the websocket hub.
type FeedDelivery interface {
	BroadcastRowChange(ev events.RowChange)
}

// FeedService drains the change-feed stream into the hub. The stream uses a
// work-queue policy, so exactly one instance consumes each event; the hub
// bridges it to the other instances over Redis.
type FeedService struct {
	subscriber *pktNats.Subscriber
	delivery   FeedDelivery
	logger     logger.ILogger
}

func NewFeedService(sub *pktNats.Subscriber, delivery FeedDelivery, log logger.ILogger) *FeedService {
	return &FeedService{
		subscriber: sub,
		delivery:   delivery,
		logger:     log,
	}
}

// Start begins draining the feed stream.
func (s *FeedService) Start() {
	err := s.subscriber.Subscribe("feed.>", "feed-hub-worker", s.handleEvent)
	if err != nil {
		s.logger.Error("FeedService", "Failed to start feed subscriber", map[string]interface{}{"error": err.Error()})
		return
	}
	s.logger.Info("FeedService", "Feed service started, listening to feed.>", nil)
}

func (s *FeedService) handleEvent(ctx context.Context, event events.RowChange) error {
	s.delivery.BroadcastRowChange(event)
	return nil
}
