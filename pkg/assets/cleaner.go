package assets

import (
	"log"
	"strings"
	"sync"
)

// Cleaner removes asset files in the background after their video rows
// are gone. Removal is best-effort: the delete response never waits on it
// and failures are only logged, with enough context for a manual retry.
type Cleaner struct {
	store Store
	queue chan string
	wg    sync.WaitGroup
	once  sync.Once
}

// NewCleaner starts a single worker draining the removal queue.
func NewCleaner(store Store) *Cleaner {
	c := &Cleaner{
		store: store,
		queue: make(chan string, 256),
	}
	c.wg.Add(1)
	go c.run()
	return c
}

// Enqueue schedules files for removal without blocking the caller. Empty
// names and remote URLs (imported thumbnails) are skipped; a full queue
// drops the name with a log line rather than stalling a request.
func (c *Cleaner) Enqueue(names ...string) {
	for _, name := range names {
		if name == "" || strings.HasPrefix(name, "http://") || strings.HasPrefix(name, "https://") {
			continue
		}
		select {
		case c.queue <- name:
		default:
			log.Printf("asset cleaner: queue full, dropped %s", name)
		}
	}
}

// Close drains the queue and stops the worker.
func (c *Cleaner) Close() {
	c.once.Do(func() { close(c.queue) })
	c.wg.Wait()
}

func (c *Cleaner) run() {
	defer c.wg.Done()
	for name := range c.queue {
		if err := c.store.Remove(name); err != nil {
			log.Printf("asset cleaner: remove %s: %v", name, err)
		}
	}
}
