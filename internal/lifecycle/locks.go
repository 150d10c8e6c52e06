package lifecycle

import (
	"sync"
)

// fileLocks 按文件 ID 的建议锁。
// 引擎的每个操作在触及某个文件 ID 期间持有对应的锁，
// 不同文件之间互不阻塞。条目带引用计数，解锁后不再被等待时回收。
type fileLocks struct {
	mu      sync.Mutex
	entries map[uint]*lockEntry
}

type lockEntry struct {
	refs int
	mu   sync.Mutex
}

func newFileLocks() *fileLocks {
	return &fileLocks{entries: make(map[uint]*lockEntry)}
}

// Lock 获取指定文件 ID 的锁
func (l *fileLocks) Lock(id uint) {
	l.mu.Lock()
	entry, ok := l.entries[id]
	if !ok {
		entry = &lockEntry{}
		l.entries[id] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()
}

// Unlock 释放指定文件 ID 的锁
func (l *fileLocks) Unlock(id uint) {
	l.mu.Lock()
	entry, ok := l.entries[id]
	if !ok {
		l.mu.Unlock()
		panic("lifecycle: 解锁未持有的文件锁")
	}
	entry.refs--
	if entry.refs == 0 {
		delete(l.entries, id)
	}
	l.mu.Unlock()

	entry.mu.Unlock()
}
