package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/mateusmacedo/go-busline/internal/reservation/domain"
	pkgApp "github.com/mateusmacedo/go-busline/pkg/application"
)

const snapshotKey = "busline:snapshot"

// RedisStore persists the snapshot as one JSON blob under a fixed key.
type RedisStore struct {
	client redis.UniversalClient
	logger pkgApp.AppLogger
}

func NewRedisStore(client redis.UniversalClient, logger pkgApp.AppLogger) *RedisStore {
	return &RedisStore{client: client, logger: logger}
}

// LoadAll reads the snapshot key. A missing key is a cold start, not an
// error.
func (s *RedisStore) LoadAll(ctx context.Context) (domain.Snapshot, error) {
	raw, err := s.client.Get(ctx, snapshotKey).Bytes()
	if errors.Is(err, redis.Nil) {
		pkgApp.LogInfo(ctx, s.logger, "snapshot key not found, starting empty", map[string]interface{}{
			"key": snapshotKey,
		})
		return domain.Snapshot{}, nil
	}
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("read snapshot key %s: %w", snapshotKey, err)
	}

	var snapshot domain.Snapshot
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		return domain.Snapshot{}, fmt.Errorf("decode snapshot key %s: %w", snapshotKey, err)
	}
	return snapshot, nil
}

func (s *RedisStore) SaveAll(ctx context.Context, snapshot domain.Snapshot) error {
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := s.client.Set(ctx, snapshotKey, raw, 0).Err(); err != nil {
		return fmt.Errorf("write snapshot key %s: %w", snapshotKey, err)
	}

	pkgApp.LogInfo(ctx, s.logger, "snapshot saved", map[string]interface{}{
		"key":      snapshotKey,
		"routes":   len(snapshot.Routes),
		"bookings": len(snapshot.Bookings),
	})
	return nil
}
