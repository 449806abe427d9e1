package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/estatedesk/admin/modules/projects/domain/entities/preview"
)

const previewPrefix = "projects:form_previews:v1"

// PreviewRepository keeps the previews of one form session in a redis hash.
// The hash expires ttl after the last write.
type PreviewRepository struct {
	redis *redis.Client
	key   string
	ttl   time.Duration
}

func NewPreviewRepository(client *redis.Client, sessionID uuid.UUID, ttl time.Duration) *PreviewRepository {
	return &PreviewRepository{
		redis: client,
		key:   fmt.Sprintf("%s:{%s}", previewPrefix, sessionID.String()),
		ttl:   ttl,
	}
}

func RedisPreviewFactory(client *redis.Client, ttl time.Duration) preview.Factory {
	return func(sessionID uuid.UUID) preview.Store {
		return NewPreviewRepository(client, sessionID, ttl)
	}
}

func (r *PreviewRepository) Put(ctx context.Context, key string, p preview.Preview) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return err
	}
	pipe := r.redis.TxPipeline()
	pipe.HSet(ctx, r.key, key, raw)
	if r.ttl > 0 {
		pipe.Expire(ctx, r.key, r.ttl)
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (r *PreviewRepository) Get(ctx context.Context, key string) (preview.Preview, bool, error) {
	raw, err := r.redis.HGet(ctx, r.key, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return preview.Preview{}, false, nil
		}
		return preview.Preview{}, false, err
	}
	var p preview.Preview
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return preview.Preview{}, false, err
	}
	return p, true, nil
}

func (r *PreviewRepository) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return r.redis.HDel(ctx, r.key, keys...).Err()
}

func (r *PreviewRepository) All(ctx context.Context) (map[string]preview.Preview, error) {
	result, err := r.redis.HGetAll(ctx, r.key).Result()
	if err != nil {
		return nil, err
	}
	out := make(map[string]preview.Preview, len(result))
	for k, raw := range result {
		var p preview.Preview
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			return nil, fmt.Errorf("decode preview %s: %w", k, err)
		}
		out[k] = p
	}
	return out, nil
}
