package services

import (
	"context"
	"fmt"

	"github.com/ziqrishahab/PelarisAPI-sub001/internal/domain"
)

type actorContextKey struct{}

// WithActor attaches the authenticated identity to the request context.
// The identity boundary calls this; workflows trust what they find.
func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

func ActorFromContext(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorContextKey{}).(domain.Actor)
	return actor, ok
}

func requireActor(ctx context.Context) (domain.Actor, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.TenantID == "" {
		return domain.Actor{}, fmt.Errorf("no actor in context: %w", domain.ErrValidation)
	}
	return actor, nil
}
