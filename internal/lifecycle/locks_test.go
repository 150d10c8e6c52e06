package lifecycle

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFileLocks(t *testing.T) {
	t.Run("同一 ID 互斥", func(t *testing.T) {
		locks := newFileLocks()

		var wg sync.WaitGroup
		counter := 0
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				locks.Lock(1)
				counter++
				locks.Unlock(1)
			}()
		}
		wg.Wait()

		assert.Equal(t, 50, counter)
	})

	t.Run("不同 ID 互不阻塞", func(t *testing.T) {
		locks := newFileLocks()
		locks.Lock(1)

		done := make(chan struct{})
		go func() {
			locks.Lock(2)
			locks.Unlock(2)
			close(done)
		}()
		<-done

		locks.Unlock(1)
	})

	t.Run("解锁后条目被回收", func(t *testing.T) {
		locks := newFileLocks()
		locks.Lock(1)
		locks.Unlock(1)

		locks.mu.Lock()
		defer locks.mu.Unlock()
		assert.Empty(t, locks.entries)
	})

	t.Run("解锁未持有的锁触发 panic", func(t *testing.T) {
		locks := newFileLocks()
		assert.Panics(t, func() { locks.Unlock(99) })
	})
}
