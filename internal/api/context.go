package api

import (
	"context"

	"tourbooking/internal/identity"
)

type ctxKey string

const ctxKeyActor ctxKey = "actor"

func WithActor(ctx context.Context, a *identity.Actor) context.Context {
	return context.WithValue(ctx, ctxKeyActor, a)
}

// ActorFromContext returns the signed-in actor, or nil for anonymous requests.
func ActorFromContext(ctx context.Context) *identity.Actor {
	v := ctx.Value(ctxKeyActor)
	if v == nil {
		return nil
	}
	a, _ := v.(*identity.Actor)
	return a
}
