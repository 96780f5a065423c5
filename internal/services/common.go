package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/ziqrishahab/PelarisAPI-sub001/internal/events"
	applog "github.com/ziqrishahab/PelarisAPI-sub001/internal/log"
)

// publish delivers an event after a successful commit. Sink failures are
// logged and swallowed; they never surface in the business result.
func publish(ctx context.Context, pub events.Publisher, e events.Event) {
	if pub == nil {
		return
	}
	if err := pub.Publish(ctx, e); err != nil {
		applog.Warn(nil, "event.publish.failed", err, zap.String("event_type", e.Type))
	}
}

type stockChangedPayload struct {
	VariantID string `json:"variant_id"`
	BranchID  string `json:"branch_id"`
	Quantity  int    `json:"quantity"`
	Delta     int    `json:"delta"`
	Reason    string `json:"reason"`
}
