package auth

import "context"

type ctxKey string

const actorKey ctxKey = "actor"

func ContextWithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// ActorFromContext returns the request actor. The zero Actor (not
// authenticated) is returned when no middleware has run.
func ActorFromContext(ctx context.Context) (Actor, bool) {
	if actor, ok := ctx.Value(actorKey).(Actor); ok {
		return actor, true
	}
	return Actor{}, false
}
