// control/metrics.go
// Author: momentics <momentics@gmail.com>
//
// Runtime counter registry for the socket and protocol layers.
// The surrounding system reads these to ship telemetry; the library
// itself never logs.

package control

import (
	"sync"
	"time"
)

// MetricsRegistry holds monotonically increasing counters in a
// thread-safe map with dynamic registration.
type MetricsRegistry struct {
	mu       sync.RWMutex
	counters map[string]int64
	updated  time.Time
}

// NewMetricsRegistry creates an empty registry.
func NewMetricsRegistry() *MetricsRegistry {
	return &MetricsRegistry{
		counters: make(map[string]int64),
	}
}

// Add increments a counter key by delta, registering it on first use.
func (mr *MetricsRegistry) Add(key string, delta int64) {
	mr.mu.Lock()
	mr.counters[key] += delta
	mr.updated = time.Now()
	mr.mu.Unlock()
}

// Get returns the current value of a counter, zero when unregistered.
func (mr *MetricsRegistry) Get(key string) int64 {
	mr.mu.RLock()
	defer mr.mu.RUnlock()
	return mr.counters[key]
}

// Snapshot returns a copy of all counters.
func (mr *MetricsRegistry) Snapshot() map[string]int64 {
	mr.mu.RLock()
	defer mr.mu.RUnlock()
	out := make(map[string]int64, len(mr.counters))
	for k, v := range mr.counters {
		out[k] = v
	}
	return out
}

// Updated returns the time of the last counter change.
func (mr *MetricsRegistry) Updated() time.Time {
	mr.mu.RLock()
	defer mr.mu.RUnlock()
	return mr.updated
}

// Metrics is the process-wide registry the library layers write to.
var Metrics = NewMetricsRegistry()

// Counter keys bumped by the library.
const (
	MetricTCPConnects     = "tcp.connects"
	MetricTCPAccepts      = "tcp.accepts"
	MetricBytesIn         = "net.bytes_in"
	MetricBytesOut        = "net.bytes_out"
	MetricUDPDatagramsIn  = "udp.datagrams_in"
	MetricUDPDatagramsOut = "udp.datagrams_out"
	MetricSelectorWakeups = "selector.wakeups"
	MetricFTPTransfers    = "ftp.transfers"
	MetricHTTPRequests    = "http.requests"
)
