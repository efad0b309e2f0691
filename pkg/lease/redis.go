package lease

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/to404hanga/pkg404/logger"
	loggerv2 "github.com/to404hanga/pkg404/logger/v2"
)

const (
	renewScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0`

	releaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`
)

// RedisLease 基于 SET NX PX 的租约, 获得后按 ttl/3 周期续期
type RedisLease struct {
	client redis.Cmdable
	log    loggerv2.Logger
	key    string
	owner  string
	ttl    time.Duration

	mu       sync.Mutex
	held     bool
	lost     chan struct{}
	lostOnce sync.Once
	stop     chan struct{}
	stopOnce sync.Once
}

var _ Lease = (*RedisLease)(nil)

func NewRedisLease(client redis.Cmdable, log loggerv2.Logger, key string, ttl time.Duration) *RedisLease {
	return &RedisLease{
		client: client,
		log:    log,
		key:    key,
		owner:  uuid.New().String(),
		ttl:    ttl,
		lost:   make(chan struct{}),
		stop:   make(chan struct{}),
	}
}

// Owner 当前实例的租约标识
func (l *RedisLease) Owner() string {
	return l.owner
}

func (l *RedisLease) Acquire(ctx context.Context) error {
	ticker := time.NewTicker(l.interval())
	defer ticker.Stop()

	for {
		ok, err := l.client.SetNX(ctx, l.key, l.owner, l.ttl).Result()
		if err != nil {
			return fmt.Errorf("Acquire failed at setnx: %w", err)
		}
		if ok {
			l.mu.Lock()
			l.held = true
			l.mu.Unlock()
			l.log.InfoContext(ctx, "Lease acquired",
				logger.String("key", l.key),
				logger.String("owner", l.owner))
			go l.keepAlive()
			return nil
		}

		l.log.InfoContext(ctx, "Lease held by another instance, waiting", logger.String("key", l.key))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (l *RedisLease) Release(ctx context.Context) error {
	l.stopOnce.Do(func() { close(l.stop) })

	l.mu.Lock()
	held := l.held
	l.held = false
	l.mu.Unlock()
	if !held {
		return nil
	}

	n, err := l.client.Eval(ctx, releaseScript, []string{l.key}, l.owner).Int64()
	if err != nil {
		return fmt.Errorf("Release failed: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("Release failed: %w", ErrNotHeld)
	}
	return nil
}

func (l *RedisLease) Lost() <-chan struct{} {
	return l.lost
}

// renew 续期一次, 租约已被他人持有时返回 ErrNotHeld
func (l *RedisLease) renew(ctx context.Context) error {
	n, err := l.client.Eval(ctx, renewScript, []string{l.key}, l.owner, l.ttl.Milliseconds()).Int64()
	if err != nil {
		return fmt.Errorf("renew failed: %w", err)
	}
	if n == 0 {
		return ErrNotHeld
	}
	return nil
}

func (l *RedisLease) keepAlive() {
	ticker := time.NewTicker(l.interval())
	defer ticker.Stop()
	lastRenew := time.Now()

	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), l.interval())
			err := l.renew(ctx)
			cancel()
			if err == nil {
				lastRenew = time.Now()
				continue
			}
			if errors.Is(err, ErrNotHeld) {
				l.markLost()
				return
			}
			l.log.Warn("Lease renew failed", logger.String("key", l.key), logger.Error(err))
			// 超过 ttl 未续期成功, key 可能已过期并被他人抢占
			if time.Since(lastRenew) >= l.ttl {
				l.markLost()
				return
			}
		}
	}
}

func (l *RedisLease) markLost() {
	l.mu.Lock()
	l.held = false
	l.mu.Unlock()
	l.log.Error("Lease lost", logger.String("key", l.key), logger.String("owner", l.owner))
	l.lostOnce.Do(func() { close(l.lost) })
}

func (l *RedisLease) interval() time.Duration {
	d := l.ttl / 3
	if d <= 0 {
		d = time.Second
	}
	return d
}
