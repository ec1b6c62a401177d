package utils

import (
	"context"
	"errors"
	"testing"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type fakeRedisPinger struct{ err error }

func (f fakeRedisPinger) Ping(ctx context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", f.err)
}

type fakeMongoPinger struct{ err error }

func (f fakeMongoPinger) Ping(ctx context.Context, rp *readpref.ReadPref) error {
	return f.err
}

func TestCheckHealth(t *testing.T) {
	down := errors.New("connection refused")

	tests := []struct {
		name         string
		cache, state error
		mongo        error
		wantCache    bool
		wantState    bool
		wantMongo    bool
	}{
		{name: "all up", wantCache: true, wantState: true, wantMongo: true},
		{name: "cache down", cache: down, wantState: true, wantMongo: true},
		{name: "state store down", state: down, wantCache: true, wantMongo: true},
		{name: "mongo down", mongo: down, wantCache: true, wantState: true},
	}
	for _, tt := range tests {
		got := checkHealth(context.Background(),
			fakeRedisPinger{err: tt.cache},
			fakeRedisPinger{err: tt.state},
			fakeMongoPinger{err: tt.mongo})

		if got.Cache != tt.wantCache || got.StateStore != tt.wantState || got.Mongo != tt.wantMongo {
			t.Errorf("%s: got %+v", tt.name, got)
		}
		if got.CheckedAt.IsZero() {
			t.Errorf("%s: checked_at not stamped", tt.name)
		}
	}
}
