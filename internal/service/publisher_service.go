package service

import (
	"context"

	"redoma-support-be/internal/pkg/logger"
	"redoma-support-be/pkg/events"
	pktNats "redoma-support-be/pkg/nats"
)

// IFeedPublisher pushes committed row changes onto the event bus. Delivery
// is best effort: the row is already in the database, and clients that miss
// a push reconcile on their next fetch.
type IFeedPublisher interface {
	RowInserted(ctx context.Context, table string, row interface{}, conversationId, clientToken string)
	RowUpdated(ctx context.Context, table string, row interface{}, conversationId, clientToken string)
	RowDeleted(ctx context.Context, table string, row interface{}, conversationId, clientToken string)
}

type feedPublisher struct {
	publisher *pktNats.Publisher
	logger    logger.ILogger
}

func NewFeedPublisher(publisher *pktNats.Publisher, log logger.ILogger) IFeedPublisher {
	return &feedPublisher{publisher: publisher, logger: log}
}

func (p *feedPublisher) RowInserted(ctx context.Context, table string, row interface{}, conversationId, clientToken string) {
	p.publish(ctx, table, events.ActionInsert, row, conversationId, clientToken)
}

func (p *feedPublisher) RowUpdated(ctx context.Context, table string, row interface{}, conversationId, clientToken string) {
	p.publish(ctx, table, events.ActionUpdate, row, conversationId, clientToken)
}

func (p *feedPublisher) RowDeleted(ctx context.Context, table string, row interface{}, conversationId, clientToken string) {
	p.publish(ctx, table, events.ActionDelete, row, conversationId, clientToken)
}

func (p *feedPublisher) publish(ctx context.Context, table, action string, row interface{}, conversationId, clientToken string) {
	if p.publisher == nil {
		return
	}

	event, err := events.NewRowChange(table, action, row)
	if err != nil {
		p.logger.Error("FeedPublisher", "Failed to build row change", map[string]interface{}{"table": table, "error": err.Error()})
		return
	}
	event.ConversationId = conversationId
	event.ClientToken = clientToken

	if err := p.publisher.Publish(ctx, event); err != nil {
		p.logger.Error("FeedPublisher", "Failed to publish row change", map[string]interface{}{
			"table":  table,
			"action": action,
			"error":  err.Error(),
		})
	}
}
