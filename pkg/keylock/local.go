package keylock

import (
	"context"
	"sync"
	"time"
)

// Local блокировки внутри одного процесса
type Local struct {
	mu             sync.Mutex
	locks          map[string]*localEntry
	acquireTimeout time.Duration
}

type localEntry struct {
	sem  chan struct{}
	refs int
}

// NewLocal создает локальный Locker; acquireTimeout <= 0 означает ожидание до отмены контекста
func NewLocal(acquireTimeout time.Duration) *Local {
	return &Local{
		locks:          make(map[string]*localEntry),
		acquireTimeout: acquireTimeout,
	}
}

func (l *Local) Lock(ctx context.Context, key string) (Unlock, error) {
	entry := l.acquireEntry(key)

	waitCtx, cancel := withAcquireTimeout(ctx, l.acquireTimeout)
	defer cancel()

	select {
	case entry.sem <- struct{}{}:
	case <-waitCtx.Done():
		l.releaseEntry(key, entry)
		return nil, timeoutError(key, waitCtx.Err())
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-entry.sem
			l.releaseEntry(key, entry)
		})
	}, nil
}

func (l *Local) acquireEntry(key string) *localEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.locks[key]
	if !ok {
		entry = &localEntry{sem: make(chan struct{}, 1)}
		l.locks[key] = entry
	}
	entry.refs++
	return entry
}

// releaseEntry удаляет запись, когда её больше никто не держит и не ждёт
func (l *Local) releaseEntry(key string, entry *localEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry.refs--
	if entry.refs == 0 {
		delete(l.locks, key)
	}
}

// size количество активных ключей (для тестов)
func (l *Local) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
