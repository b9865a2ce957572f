// Package cache provides a small in-process LRU with per-entry TTL.
// The API server keeps one instance in front of the identity
// resolution pipeline; explicit invalidation handles writes, the
// manager's sweep handles entries that simply age out.
package cache

import "time"

// Cleaner is implemented by caches the Manager can sweep.
type Cleaner interface {
	// CleanExpired drops expired entries, returning how many were dropped.
	CleanExpired() int
}

// Manager runs a periodic expiry sweep over registered caches.
type Manager struct {
	caches    []Cleaner
	stopSweep chan struct{}
	sweepDone chan struct{}
}

func NewManager() *Manager {
	return &Manager{
		stopSweep: make(chan struct{}),
		sweepDone: make(chan struct{}),
	}
}

// Register adds a cache to the sweep. Call before StartCleanup; the
// slice is not guarded against concurrent registration.
func (m *Manager) Register(c Cleaner) {
	m.caches = append(m.caches, c)
}

// StartCleanup launches the sweep goroutine. Stop shuts it down.
func (m *Manager) StartCleanup(interval time.Duration) {
	go m.sweep(interval)
}

func (m *Manager) sweep(interval time.Duration) {
	defer close(m.sweepDone)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			for _, c := range m.caches {
				c.CleanExpired()
			}
		case <-m.stopSweep:
			return
		}
	}
}

// Stop ends the sweep goroutine and waits for it to exit.
func (m *Manager) Stop() {
	close(m.stopSweep)
	<-m.sweepDone
}
