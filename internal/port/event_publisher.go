package port

import (
	"context"

	"github.com/nicezozad/railbook/internal/core/domain"
)

type EventPublisher interface {
	// PublishTicketIssued emits the event for a persisted ticket
	PublishTicketIssued(ctx context.Context, evt domain.TicketIssuedEvent) error
}
