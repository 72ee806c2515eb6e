package keylock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript удаляет ключ, только если он всё ещё принадлежит владельцу токена
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Redis распределённая блокировка для нескольких экземпляров сервиса
// TTL ограничивает время жизни блокировки, если процесс упал, не освободив её
type Redis struct {
	client         redis.UniversalClient
	ttl            time.Duration
	acquireTimeout time.Duration
	retryInterval  time.Duration
}

// NewRedis создает Locker поверх Redis
func NewRedis(client redis.UniversalClient, ttl, acquireTimeout, retryInterval time.Duration) *Redis {
	if retryInterval <= 0 {
		retryInterval = 25 * time.Millisecond
	}
	return &Redis{
		client:         client,
		ttl:            ttl,
		acquireTimeout: acquireTimeout,
		retryInterval:  retryInterval,
	}
}

func (r *Redis) Lock(ctx context.Context, key string) (Unlock, error) {
	token := uuid.NewString()

	waitCtx, cancel := withAcquireTimeout(ctx, r.acquireTimeout)
	defer cancel()

	ticker := time.NewTicker(r.retryInterval)
	defer ticker.Stop()

	for {
		ok, err := r.client.SetNX(waitCtx, key, token, r.ttl).Result()
		if err != nil {
			if waitCtx.Err() != nil {
				return nil, timeoutError(key, waitCtx.Err())
			}
			return nil, fmt.Errorf("%w: SETNX %s: %v", ErrLockBackend, key, err)
		}
		if ok {
			break
		}

		select {
		case <-ticker.C:
		case <-waitCtx.Done():
			return nil, timeoutError(key, waitCtx.Err())
		}
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			// Освобождаем даже если контекст запроса уже отменён
			releaseCtx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			_ = releaseScript.Run(releaseCtx, r.client, []string{key}, token).Err()
		})
	}, nil
}
