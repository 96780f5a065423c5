// Package events is the outbound notification boundary. Workflows publish
// after their unit commits; delivery is best-effort and a failed publish is
// never visible in the business result.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	TypeStockChanged       = "stock.changed"
	TypeTransactionCreated = "transaction.created"
	TypeTransferDecided    = "transfer.decided"
	TypeReturnDecided      = "return.decided"
)

// Event is the envelope written to whichever sink is configured.
type Event struct {
	ID        string    `json:"event_id"`
	Type      string    `json:"event_type"`
	TenantID  string    `json:"tenant_id"`
	Payload   any       `json:"payload"`
	Timestamp time.Time `json:"timestamp"`
}

func New(eventType, tenantID string, payload any) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		TenantID:  tenantID,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// Publisher is the injected transport. The engine only ever calls Publish
// after a successful commit.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// LogPublisher writes events to the process log; the default sink when no
// broker is configured.
type LogPublisher struct {
	Logger *zap.Logger
}

func NewLogPublisher(l *zap.Logger) *LogPublisher { return &LogPublisher{Logger: l} }

func (p *LogPublisher) Publish(_ context.Context, e Event) error {
	p.Logger.Info("event",
		zap.String("event_id", e.ID),
		zap.String("event_type", e.Type),
		zap.String("tenant_id", e.TenantID),
		zap.Any("payload", e.Payload),
	)
	return nil
}

func (p *LogPublisher) Close() error { return nil }
