package dialog

import (
	"context"
	"log/slog"
)

// Messenger sends outbound items through the channel client. Implemented
// by instagram.API; tests use in-process fakes.
type Messenger interface {
	SendText(ctx context.Context, userID, text string) error
	SendPhoto(ctx context.Context, userID, path string) error
	ResolveUsername(ctx context.Context, username string) (string, error)
}

// Deliverer sends a message that must reach the user, retrying on
// failure. The search result link goes through this path.
type Deliverer interface {
	Deliver(ctx context.Context, userID, text string) error
}

// Resolver maps place names and coordinates to IATA-style codes. An empty
// code with a nil error means the lookup found nothing; callers treat
// transport errors the same way.
type Resolver interface {
	CityToCode(ctx context.Context, city string) (string, error)
	GPSToCode(ctx context.Context, lat, lng float64) (string, error)
}

// Env carries the collaborators a step may call. One Env is shared by all
// nodes for the lifetime of the engine.
type Env struct {
	Messenger Messenger
	Deliverer Deliverer
	Resolver  Resolver
	Logger    *slog.Logger
}

func (e *Env) logger() *slog.Logger {
	if e == nil || e.Logger == nil {
		return slog.Default()
	}
	return e.Logger
}
