package utils

import (
	"context"
	"sync"
	"time"

	"appointmint/config"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// HealthStatus is the snapshot served by /health/details. The two Redis
// clients are reported separately so a degraded conversation-state store is
// distinguishable from a cold cache.
type HealthStatus struct {
	Mongo      bool      `json:"mongo"`
	Cache      bool      `json:"cache"`
	StateStore bool      `json:"state_store"`
	CheckedAt  time.Time `json:"checked_at"`
}

var (
	currentHealth HealthStatus
	healthMu      sync.RWMutex
)

// GetHealthStatus returns the latest stored health snapshot.
func GetHealthStatus() HealthStatus {
	healthMu.RLock()
	defer healthMu.RUnlock()
	return currentHealth
}

type redisPinger interface {
	Ping(ctx context.Context) *redis.StatusCmd
}

type mongoPinger interface {
	Ping(ctx context.Context, rp *readpref.ReadPref) error
}

// checkHealth pings each dependency once and assembles a snapshot.
func checkHealth(ctx context.Context, cache, state redisPinger, db mongoPinger) HealthStatus {
	return HealthStatus{
		Mongo:      db.Ping(ctx, nil) == nil,
		Cache:      cache.Ping(ctx).Err() == nil,
		StateStore: state.Ping(ctx).Err() == nil,
		CheckedAt:  time.Now(),
	}
}

// StartHealthMonitor pings the cache, the conversation-state store, and Mongo
// on the configured interval and keeps the latest snapshot in memory.
func StartHealthMonitor(cache, state *redis.Client, db *mongo.Client) {
	interval := time.Duration(config.AppConfig.HealthCheckIntervalSecs) * time.Second
	if interval <= 0 {
		interval = time.Minute
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for range ticker.C {
			snapshot := checkHealth(context.Background(), cache, state, db)
			healthMu.Lock()
			currentHealth = snapshot
			healthMu.Unlock()
		}
	}()
}
