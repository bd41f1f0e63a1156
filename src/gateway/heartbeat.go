package gateway

import (
	"log/slog"
	"sync"
	"time"
)

// heartbeat periodically sends liveness pings for one connection. If
// the previous ping was never acknowledged when the next one is due,
// the connection is considered dead and the scheduler stops itself
// after signalling dead(). One scheduler per connection; starting a
// replacement must stop the old one first.
type heartbeat struct {
	interval time.Duration
	beat     func() error
	dead     func()
	log      *slog.Logger

	mu       sync.Mutex
	awaiting bool
	stopped  bool
	stopc    chan struct{}
}

func newHeartbeat(interval time.Duration, beat func() error, dead func(), log *slog.Logger) *heartbeat {
	return &heartbeat{
		interval: interval,
		beat:     beat,
		dead:     dead,
		log:      log,
		stopc:    make(chan struct{}),
	}
}

func (h *heartbeat) run() {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()
	for {
		select {
		case <-h.stopc:
			return
		case <-ticker.C:
			h.mu.Lock()
			missed := h.awaiting
			if !missed {
				h.awaiting = true
			}
			h.mu.Unlock()
			if missed {
				h.log.Warn("heartbeat was never acknowledged, assuming dead connection")
				h.stop()
				h.dead()
				return
			}
			if err := h.beat(); err != nil {
				h.log.Error("failed to send heartbeat", "error", err)
				h.stop()
				h.dead()
				return
			}
			h.log.Debug("heartbeat sent")
		}
	}
}

// ack records the server's acknowledgement of the last ping.
func (h *heartbeat) ack() {
	h.mu.Lock()
	h.awaiting = false
	h.mu.Unlock()
}

func (h *heartbeat) awaitingAck() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.awaiting
}

// stop is idempotent and safe from any goroutine.
func (h *heartbeat) stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stopped {
		return
	}
	h.stopped = true
	close(h.stopc)
}
