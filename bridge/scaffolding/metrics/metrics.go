// Package metrics keeps process counters for the HTTP layer. A Collector is
// created once and handed to the middleware that feeds it.
package metrics

import (
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
)

// Collector counts requests as they flow through the middleware chain.
// The zero value is ready to use.
type Collector struct {
	requests   atomic.Int64
	errors     atomic.Int64
	panics     atomic.Int64
	goroutines atomic.Int64
	inFlight   atomic.Int64

	mu       sync.Mutex
	statuses map[int]int64
}

// New returns an empty collector.
func New() *Collector {
	return &Collector{}
}

// Begin marks a request as in flight.
func (c *Collector) Begin() {
	c.inFlight.Add(1)
}

// End marks a request as finished and returns the total request count.
func (c *Collector) End(status int) int64 {
	c.inFlight.Add(-1)

	c.mu.Lock()
	if c.statuses == nil {
		c.statuses = make(map[int]int64)
	}
	c.statuses[status]++
	c.mu.Unlock()

	return c.requests.Add(1)
}

// AddErrors increments the error count.
func (c *Collector) AddErrors() int64 {
	return c.errors.Add(1)
}

// AddPanics increments the panic count.
func (c *Collector) AddPanics() int64 {
	return c.panics.Add(1)
}

// SampleGoroutines records the current number of goroutines.
func (c *Collector) SampleGoroutines() int64 {
	n := int64(runtime.NumGoroutine())
	c.goroutines.Store(n)
	return n
}

// Snapshot is a point in time copy of the counters.
type Snapshot struct {
	Requests   int64            `json:"requests"`
	Errors     int64            `json:"errors"`
	Panics     int64            `json:"panics"`
	Goroutines int64            `json:"goroutines"`
	InFlight   int64            `json:"inFlight"`
	Statuses   map[string]int64 `json:"statuses"`
}

// Snapshot copies the current counters.
func (c *Collector) Snapshot() Snapshot {
	s := Snapshot{
		Requests:   c.requests.Load(),
		Errors:     c.errors.Load(),
		Panics:     c.panics.Load(),
		Goroutines: c.goroutines.Load(),
		InFlight:   c.inFlight.Load(),
		Statuses:   make(map[string]int64),
	}

	c.mu.Lock()
	for status, n := range c.statuses {
		s.Statuses[strconv.Itoa(status)] = n
	}
	c.mu.Unlock()

	return s
}
