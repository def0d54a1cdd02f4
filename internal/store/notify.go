package store

import (
	"fmt"
	"sort"
	"sync"

	"github.com/charmbracelet/log"

	"todo-store/internal/domain"
)

// Listener receives the full collection after each successful write.
// Each listener gets its own copy of the tasks.
type Listener func(tasks []domain.Task)

// broadcaster is the store-owned fan-out list. Delivery is synchronous, at most
// once per write, and only to listeners registered at broadcast time.
type broadcaster struct {
	mu        sync.Mutex
	next      int
	listeners map[int]Listener
	logger    *log.Logger
}

func newBroadcaster(logger *log.Logger) *broadcaster {
	return &broadcaster{
		listeners: make(map[int]Listener),
		logger:    logger,
	}
}

func (b *broadcaster) subscribe(fn Listener) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next
	b.next++
	b.listeners[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.listeners, id)
		})
	}
}

func (b *broadcaster) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.listeners)
}

// publish calls listeners in subscription order outside the lock, so a
// listener may subscribe, unsubscribe, or call back into the store.
func (b *broadcaster) publish(tasks []domain.Task) {
	b.mu.Lock()
	ids := make([]int, 0, len(b.listeners))
	for id := range b.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]Listener, len(ids))
	for i, id := range ids {
		fns[i] = b.listeners[id]
	}
	b.mu.Unlock()

	b.logger.Debug("broadcasting change", "listeners", len(fns), "tasks", len(tasks))
	for _, fn := range fns {
		b.deliver(fn, domain.CloneTasks(tasks))
	}
}

func (b *broadcaster) deliver(fn Listener, tasks []domain.Task) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("change listener panicked", "err", fmt.Sprint(r))
		}
	}()
	fn(tasks)
}
