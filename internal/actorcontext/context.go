// Package actorcontext carries the authenticated actor through request
// contexts so services and the audit writer can attribute changes without
// threading identity arguments everywhere.
package actorcontext

import (
	"context"
	"strings"
)

type Actor struct {
	ID   string
	Role string
}

type contextKey struct{ name string }

var (
	actorKey     = contextKey{"actor"}
	requestIDKey = contextKey{"request_id"}
	ipAddressKey = contextKey{"ip_address"}
)

func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

func ActorFromContext(ctx context.Context) (Actor, bool) {
	actor, ok := ctx.Value(actorKey).(Actor)
	if !ok || strings.TrimSpace(actor.ID) == "" {
		return Actor{}, false
	}
	return actor, true
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

func RequestIDFromContext(ctx context.Context) string {
	value, _ := ctx.Value(requestIDKey).(string)
	return value
}

func WithIPAddress(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, ipAddressKey, ip)
}

func IPAddressFromContext(ctx context.Context) string {
	value, _ := ctx.Value(ipAddressKey).(string)
	return value
}
