package bodyparts

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/2beens/workoutdash/internal/storage"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
)

const DefaultMapKey = "env/body_part_map.json"

// fromLabels keeps only entries with a known body part.
func fromLabels(labels map[string]string) Map {
	m := Map{}
	for name, label := range labels {
		bp, ok := ParseBodyPart(label)
		if !ok {
			log.Warnf("body part map: ignoring invalid body part %q for %q", label, name)
			continue
		}
		m[name] = bp
	}
	return m
}

// StorageMapStore keeps the map as an indented JSON object in a storage.Store.
type StorageMapStore struct {
	store storage.Store
	key   string
}

func NewStorageMapStore(store storage.Store, key string) *StorageMapStore {
	if key == "" {
		key = DefaultMapKey
	}
	return &StorageMapStore{
		store: store,
		key:   key,
	}
}

func (s *StorageMapStore) Load(ctx context.Context) (Map, error) {
	rc, err := s.store.Get(ctx, s.key)
	if errors.Is(err, storage.ErrNotFound) {
		return Map{}, nil
	}
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	content, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.key, err)
	}

	labels := map[string]string{}
	if err := json.Unmarshal(content, &labels); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.key, err)
	}
	return fromLabels(labels), nil
}

func (s *StorageMapStore) Save(ctx context.Context, m Map) error {
	content, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return s.store.Put(ctx, s.key, bytes.NewReader(content))
}

// RedisMapStore keeps the map in a redis hash, so several dashboard
// instances share one classification.
type RedisMapStore struct {
	redisClient redis.Cmdable
	key         string
}

func NewRedisMapStore(redisClient redis.Cmdable, key string) *RedisMapStore {
	if key == "" {
		key = "workoutdash::body-part-map"
	}
	return &RedisMapStore{
		redisClient: redisClient,
		key:         key,
	}
}

func (s *RedisMapStore) Load(ctx context.Context) (Map, error) {
	labels, err := s.redisClient.HGetAll(ctx, s.key).Result()
	if err != nil {
		return nil, fmt.Errorf("redis hgetall %s: %w", s.key, err)
	}
	return fromLabels(labels), nil
}

// Save writes the fields in name order. Existing fields not in m are kept.
func (s *RedisMapStore) Save(ctx context.Context, m Map) error {
	if len(m) == 0 {
		return nil
	}
	names := make([]string, 0, len(m))
	for n := range m {
		names = append(names, n)
	}
	sort.Strings(names)

	values := make([]interface{}, 0, 2*len(names))
	for _, n := range names {
		values = append(values, n, string(m[n]))
	}

	if err := s.redisClient.HSet(ctx, s.key, values...).Err(); err != nil {
		return fmt.Errorf("redis hset %s: %w", s.key, err)
	}
	return nil
}
