package cache

import (
	"context"
	"strconv"
	"time"
)

type Cache interface {
	GetJSON(ctx context.Context, key string, dst any) (hit bool, err error)
	SetJSON(ctx context.Context, key string, val any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	// Generation reads a counter; an unset counter is 0.
	Generation(ctx context.Context, key string) (int64, error)
	// Bump increments a counter and returns the new value.
	Bump(ctx context.Context, key string) (int64, error)
}

// DefaultTTL applies when a cache is built with a non-positive TTL.
const DefaultTTL = 30 * time.Second

// Keys for the volunteer listings. Listings are stored under
// Versioned(key, gen) where gen is the current KeyVolunteersGen value, so a
// bump hides every listing written before it.
const (
	KeyPendingVolunteers  = "volunteers:pending"
	KeyApprovedVolunteers = "volunteers:approved"
	KeyVolunteersGen      = "volunteers:gen"
)

func Versioned(key string, gen int64) string {
	return key + ":" + strconv.FormatInt(gen, 10)
}
