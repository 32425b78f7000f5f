package game

import (
	"sync"
	"time"
)

// Clock drives recurring ticks. The returned stop function must be safe to call
// more than once and must not block on an in-flight tick.
type Clock interface {
	Every(interval time.Duration, fn func()) (stop func())
}

// RealClock ticks on wall-clock time.
type RealClock struct{}

func (RealClock) Every(interval time.Duration, fn func()) func() {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				select {
				case <-done:
					return
				default:
				}
				fn()
			case <-done:
				return
			}
		}
	}()
	var once sync.Once
	return func() { once.Do(func() { close(done) }) }
}

// ManualClock only ticks when Tick is called, which makes timing deterministic in tests.
type ManualClock struct {
	mu      sync.Mutex
	next    int
	tickers map[int]func()
}

func NewManualClock() *ManualClock {
	return &ManualClock{tickers: make(map[int]func())}
}

func (c *ManualClock) Every(_ time.Duration, fn func()) func() {
	c.mu.Lock()
	id := c.next
	c.next++
	c.tickers[id] = fn
	c.mu.Unlock()
	return func() {
		c.mu.Lock()
		delete(c.tickers, id)
		c.mu.Unlock()
	}
}

// Tick fires every registered ticker n times. Tickers stopped during a tick do
// not fire again; tickers registered during a tick start on the next step.
func (c *ManualClock) Tick(n int) {
	for i := 0; i < n; i++ {
		c.mu.Lock()
		ids := make([]int, 0, len(c.tickers))
		for id := range c.tickers {
			ids = append(ids, id)
		}
		c.mu.Unlock()

		for _, id := range ids {
			c.mu.Lock()
			fn, ok := c.tickers[id]
			c.mu.Unlock()
			if ok {
				fn()
			}
		}
	}
}

// Active reports how many tickers are registered.
func (c *ManualClock) Active() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.tickers)
}
