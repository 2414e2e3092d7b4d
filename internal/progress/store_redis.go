package progress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps each tracker as one JSON document under "tracker:<courseID>".
type RedisStore struct {
	client *redis.Client
	now    func() time.Time
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, now: time.Now}
}

func trackerKey(courseID string) string { return "tracker:" + courseID }

func (s *RedisStore) GetOrCreate(ctx context.Context, courseID string) (*Tracker, error) {
	key := trackerKey(courseID)
	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		fresh, merr := json.Marshal(newTracker(uuid.NewString(), courseID, s.now().UTC()))
		if merr != nil {
			return nil, merr
		}
		// SETNX keeps the first tracker if two sessions race here
		if serr := s.client.SetNX(ctx, key, fresh, 0).Err(); serr != nil {
			return nil, fmt.Errorf("create tracker %s: %w", courseID, serr)
		}
		data, err = s.client.Get(ctx, key).Bytes()
	}
	if err != nil {
		return nil, fmt.Errorf("load tracker %s: %w", courseID, err)
	}
	var t Tracker
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("decode tracker %s: %w", courseID, err)
	}
	t.normalize()
	return &t, nil
}

func (s *RedisStore) Save(ctx context.Context, t *Tracker) error {
	data, err := json.Marshal(t)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, trackerKey(t.CourseID), data, 0).Err(); err != nil {
		return fmt.Errorf("save tracker %s: %w", t.CourseID, err)
	}
	return nil
}
