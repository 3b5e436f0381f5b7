package provider

import "sync"

// writeTracker counts in-flight write-throughs. Unlike sync.WaitGroup it may be
// waited on while new writes are being added.
type writeTracker struct {
	mu   sync.Mutex
	cond *sync.Cond
	n    int
}

func newWriteTracker() *writeTracker {
	t := &writeTracker{}
	t.cond = sync.NewCond(&t.mu)
	return t
}

func (t *writeTracker) add() {
	t.mu.Lock()
	t.n++
	t.mu.Unlock()
}

func (t *writeTracker) done() {
	t.mu.Lock()
	t.n--
	if t.n == 0 {
		t.cond.Broadcast()
	}
	t.mu.Unlock()
}

func (t *writeTracker) wait() {
	t.mu.Lock()
	for t.n > 0 {
		t.cond.Wait()
	}
	t.mu.Unlock()
}
