// Package redisstore implements service.Store on Redis.
//
// Each task is a hash at <prefix>:task:<id>; the sorted set <prefix>:tasks
// holds the IDs scored by creation time, which gives ListAll insertion order.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"tugas/internal/service"
)

// APITimeout is the timeout for Redis calls.
const APITimeout = 5 * time.Second

// Store implements service.Store.
type Store struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

// New connects to the Redis server at url (redis://...).
func New(ctx context.Context, url, prefix string) (*Store, error) {
	if url == "" {
		return nil, fmt.Errorf("redis: URL not set (TUGAS_REDIS_URL)")
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, wrapError("connect", err)
	}
	return NewWithClient(client, prefix), nil
}

// NewWithClient wraps an existing client.
func NewWithClient(client *redis.Client, prefix string) *Store {
	return &Store{client: client, prefix: prefix, now: time.Now}
}

// Close closes the connection pool.
func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) indexKey() string         { return s.prefix + ":tasks" }
func (s *Store) taskKey(id string) string { return s.prefix + ":task:" + id }

// ListAll returns every task in creation order.
func (s *Store) ListAll(ctx context.Context) ([]service.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	ids, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, wrapError("list", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	cmds := make([]*redis.MapStringStringCmd, len(ids))
	_, err = s.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, id := range ids {
			cmds[i] = pipe.HGetAll(ctx, s.taskKey(id))
		}
		return nil
	})
	if err != nil {
		return nil, wrapError("list", err)
	}

	result := make([]service.Task, 0, len(ids))
	for i, id := range ids {
		h := cmds[i].Val()
		if len(h) == 0 {
			// Index entry without a hash; skip it.
			continue
		}
		result = append(result, fromHash(id, h))
	}
	return result, nil
}

// Create stores a task under a new UUID.
func (s *Store) Create(ctx context.Context, nt service.NewTask) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	id := uuid.New().String()
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, s.taskKey(id), toHash(nt.WithID(id)))
		pipe.ZAdd(ctx, s.indexKey(), redis.Z{Score: float64(s.now().UnixNano()), Member: id})
		return nil
	})
	if err != nil {
		return "", wrapError("create", err)
	}
	return id, nil
}

// Update writes only the supplied fields of an existing task.
func (s *Store) Update(ctx context.Context, id string, f service.Fields) error {
	values := hashFields(f)
	if len(values) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	args := make([]interface{}, 0, 2*len(values))
	for _, field := range []string{"text", "completed", "deadline"} {
		if v, ok := values[field]; ok {
			args = append(args, field, v)
		}
	}

	n, err := updateScript.Run(ctx, s.client, []string{s.taskKey(id)}, args...).Int()
	if err != nil {
		return wrapError("update", err)
	}
	if n == 0 {
		return service.NewStoreError("update", service.KindNotFound, fmt.Errorf("not found"))
	}
	return nil
}

// updateScript writes field/value pairs into an existing hash only, so a
// concurrent Delete cannot leave behind a hash missing from the index.
var updateScript = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 0 then
  return 0
end
redis.call("HSET", KEYS[1], unpack(ARGV))
return 1
`)

// Delete removes a task and its index entry.
func (s *Store) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.taskKey(id))
		pipe.ZRem(ctx, s.indexKey(), id)
		return nil
	})
	if err != nil {
		return wrapError("delete", err)
	}
	return nil
}

func toHash(t service.Task) map[string]interface{} {
	return map[string]interface{}{
		"text":      t.Text,
		"completed": strconv.FormatBool(t.Completed),
		"deadline":  t.Deadline,
	}
}

func hashFields(f service.Fields) map[string]interface{} {
	values := make(map[string]interface{})
	if f.Text != nil {
		values["text"] = *f.Text
	}
	if f.Completed != nil {
		values["completed"] = strconv.FormatBool(*f.Completed)
	}
	if f.Deadline != nil {
		values["deadline"] = *f.Deadline
	}
	return values
}

func fromHash(id string, h map[string]string) service.Task {
	done, _ := strconv.ParseBool(h["completed"])
	return service.Task{ID: id, Text: h["text"], Completed: done, Deadline: h["deadline"]}
}

func wrapError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return service.NewStoreError(op, service.KindUnavailable, fmt.Errorf("request timed out"))
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return service.NewStoreError(op, service.KindUnavailable, err)
	}
	if msg := err.Error(); strings.HasPrefix(msg, "NOAUTH") || strings.HasPrefix(msg, "WRONGPASS") {
		return service.NewStoreError(op, service.KindAuth, err)
	}
	return service.NewStoreError(op, service.KindInternal, err)
}
