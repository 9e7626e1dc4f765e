package audit

import "context"

type contextKey string

const (
	actorIDKey   contextKey = "audit_actor_id"
	actorNameKey contextKey = "audit_actor_name"
	ipAddressKey contextKey = "audit_ip_address"
)

// WithActor records who is performing the request. Core operations read the
// actor back out when writing audit rows, so the identity travels with the
// context instead of living in ambient state.
func WithActor(ctx context.Context, actorID, actorName string) context.Context {
	if actorID != "" {
		ctx = context.WithValue(ctx, actorIDKey, actorID)
	}

	if actorName != "" {
		ctx = context.WithValue(ctx, actorNameKey, actorName)
	}

	return ctx
}

func ActorFromContext(ctx context.Context) (actorID, actorName string) {
	actorID, _ = ctx.Value(actorIDKey).(string)
	actorName, _ = ctx.Value(actorNameKey).(string)

	return actorID, actorName
}

func WithIPAddress(ctx context.Context, ip string) context.Context {
	if ip == "" {
		return ctx
	}

	return context.WithValue(ctx, ipAddressKey, ip)
}

func IPAddressFromContext(ctx context.Context) string {
	ip, _ := ctx.Value(ipAddressKey).(string)
	return ip
}
