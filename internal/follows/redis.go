package follows

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Redis is a Store shared between server instances. Status lives in the hash
// follows:{viewer}; changes are published on the channel of the same name.
type Redis struct {
	client *redis.Client
	log    *logrus.Logger
}

func NewRedis(addr, password string, db int, log *logrus.Logger) *Redis {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Redis{client: rdb, log: log}
}

func key(viewer string) string {
	return "follows:" + viewer
}

// Ping checks the connection.
func (s *Redis) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *Redis) Close() error {
	return s.client.Close()
}

func (s *Redis) Get(ctx context.Context, viewer, target string) (bool, bool, error) {
	v, err := s.client.HGet(ctx, key(viewer), target).Result()
	if errors.Is(err, redis.Nil) {
		return false, false, nil
	}
	if err != nil {
		return false, false, fmt.Errorf("redis follow get: %w", err)
	}
	return v == "1", true, nil
}

func (s *Redis) Set(ctx context.Context, viewer, target string, following bool) error {
	v := "0"
	if following {
		v = "1"
	}
	prev, err := s.client.HGet(ctx, key(viewer), target).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("redis follow get: %w", err)
	}
	if err := s.client.HSet(ctx, key(viewer), target, v).Err(); err != nil {
		return fmt.Errorf("redis follow set: %w", err)
	}
	if prev == v {
		return nil
	}
	payload, err := json.Marshal(Change{Viewer: viewer, Target: target, Following: following})
	if err != nil {
		return err
	}
	if err := s.client.Publish(ctx, key(viewer), payload).Err(); err != nil {
		return fmt.Errorf("redis follow publish: %w", err)
	}
	return nil
}

func (s *Redis) Subscribe(ctx context.Context, viewer string) (<-chan Change, func()) {
	ctx, cancel := context.WithCancel(ctx)
	pubsub := s.client.Subscribe(ctx, key(viewer))
	out := make(chan Change, subscriberBuffer)

	go func() {
		defer close(out)
		defer pubsub.Close()
		msgs := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var ch Change
				if err := json.Unmarshal([]byte(msg.Payload), &ch); err != nil {
					s.log.WithError(err).Warn("Dropping malformed follow change")
					continue
				}
				select {
				case out <- ch:
				default:
				}
			}
		}
	}()
	return out, cancel
}
