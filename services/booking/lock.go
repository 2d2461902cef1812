package booking

import (
	"context"
	"fmt"
	"sync"
	"time"

	"herbimmortal/utils"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SlotLocker serialises the conflict-check-and-insert of bookings for one
// practitioner on one date. release is idempotent.
type SlotLocker interface {
	Acquire(ctx context.Context, practitionerID, date string) (release func(), err error)
}

func lockKey(practitionerID, date string) string {
	return fmt.Sprintf("booking:lock:%s:%s", practitionerID, date)
}

// releaseScript deletes the key only while it still holds our token, so an
// expired lock re-acquired by another instance is never removed.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisSlotLocker is a SET NX PX lock shared by every API instance.
type RedisSlotLocker struct {
	client *redis.Client
	ttl    time.Duration
	wait   time.Duration
	retry  time.Duration
	logger *zap.Logger
}

func NewRedisSlotLocker(client *redis.Client, ttl, wait time.Duration, logger *zap.Logger) *RedisSlotLocker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisSlotLocker{client: client, ttl: ttl, wait: wait, retry: 50 * time.Millisecond, logger: logger}
}

func (l *RedisSlotLocker) Acquire(ctx context.Context, practitionerID, date string) (func(), error) {
	key := lockKey(practitionerID, date)
	token := uuid.NewString()
	deadline := time.Now().Add(l.wait)

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("%w: acquire %s: %w", utils.ErrPersistence, key, err)
		}
		if ok {
			var once sync.Once
			return func() { once.Do(func() { l.release(key, token) }) }, nil
		}
		if !time.Now().Before(deadline) {
			return nil, fmt.Errorf("%w: %s on %s", utils.ErrSlotBusy, practitionerID, date)
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %w", utils.ErrSlotBusy, ctx.Err())
		case <-time.After(l.retry):
		}
	}
}

func (l *RedisSlotLocker) release(key, token string) {
	// The request context may already be cancelled; release on our own deadline.
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := releaseScript.Run(ctx, l.client, []string{key}, token).Err(); err != nil && err != redis.Nil {
		l.logger.Warn("Failed to release slot lock", zap.String("key", key), zap.Error(err))
	}
}

type localSlot struct {
	ch   chan struct{}
	refs int
}

// LocalSlotLocker serialises within a single process only.
type LocalSlotLocker struct {
	mu    sync.Mutex
	slots map[string]*localSlot
	wait  time.Duration
}

func NewLocalSlotLocker(wait time.Duration) *LocalSlotLocker {
	return &LocalSlotLocker{slots: make(map[string]*localSlot), wait: wait}
}

func (l *LocalSlotLocker) Acquire(ctx context.Context, practitionerID, date string) (func(), error) {
	key := lockKey(practitionerID, date)

	l.mu.Lock()
	s, ok := l.slots[key]
	if !ok {
		s = &localSlot{ch: make(chan struct{}, 1)}
		l.slots[key] = s
	}
	s.refs++
	l.mu.Unlock()

	timer := time.NewTimer(l.wait)
	defer timer.Stop()

	select {
	case s.ch <- struct{}{}:
		var once sync.Once
		return func() {
			once.Do(func() {
				<-s.ch
				l.unref(key, s)
			})
		}, nil
	case <-timer.C:
		l.unref(key, s)
		return nil, fmt.Errorf("%w: %s on %s", utils.ErrSlotBusy, practitionerID, date)
	case <-ctx.Done():
		l.unref(key, s)
		return nil, fmt.Errorf("%w: %w", utils.ErrSlotBusy, ctx.Err())
	}
}

func (l *LocalSlotLocker) unref(key string, s *localSlot) {
	l.mu.Lock()
	defer l.mu.Unlock()
	s.refs--
	if s.refs == 0 {
		delete(l.slots, key)
	}
}
