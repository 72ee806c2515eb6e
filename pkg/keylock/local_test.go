package keylock

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocal_SerializesSameKey(t *testing.T) {
	locker := NewLocal(0)

	var (
		inside  int32
		maxSeen int32
		wg      sync.WaitGroup
	)

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := locker.Lock(context.Background(), CarKey(1))
			require.NoError(t, err)
			defer unlock()

			n := atomic.AddInt32(&inside, 1)
			for {
				cur := atomic.LoadInt32(&maxSeen)
				if n <= cur || atomic.CompareAndSwapInt32(&maxSeen, cur, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&inside, -1)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxSeen)
	assert.Equal(t, 0, locker.size())
}

func TestLocal_DifferentKeysDoNotBlock(t *testing.T) {
	locker := NewLocal(50 * time.Millisecond)

	unlock1, err := locker.Lock(context.Background(), CarKey(1))
	require.NoError(t, err)
	defer unlock1()

	unlock2, err := locker.Lock(context.Background(), CarKey(2))
	require.NoError(t, err)
	unlock2()
}

func TestLocal_Timeout(t *testing.T) {
	locker := NewLocal(20 * time.Millisecond)

	unlock, err := locker.Lock(context.Background(), CarKey(1))
	require.NoError(t, err)

	_, err = locker.Lock(context.Background(), CarKey(1))
	assert.ErrorIs(t, err, ErrLockTimeout)

	unlock()
	unlock()

	unlock, err = locker.Lock(context.Background(), CarKey(1))
	require.NoError(t, err)
	unlock()
	assert.Equal(t, 0, locker.size())
}

func TestCarKey(t *testing.T) {
	assert.Equal(t, "booking:car:42", CarKey(42))
}
