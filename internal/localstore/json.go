package localstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tair/fabstock/pkg/logger"
)

// Load decodes the blob under key into a T. It never fails: a missing key, a read
// error or malformed content all yield fallback, and the last two are logged.
func Load[T any](ctx context.Context, kv KV, key string, fallback T) T {
	v, found, err := Lookup[T](ctx, kv, key)
	if err != nil {
		logger.Warn(ctx).Err(err).Str("key", key).Msg("Falling back to default value")
		return fallback
	}
	if !found {
		return fallback
	}
	return v
}

// Lookup decodes the blob under key, reporting whether it existed.
func Lookup[T any](ctx context.Context, kv KV, key string) (T, bool, error) {
	var v T
	raw, found, err := kv.Get(ctx, key)
	if err != nil || !found {
		return v, false, err
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		var zero T
		return zero, false, fmt.Errorf("malformed content under %s: %w", key, err)
	}
	return v, true, nil
}

// Save serializes value and overwrites the blob under key.
func Save(ctx context.Context, kv KV, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return kv.Put(ctx, key, raw)
}
