package broadcast

import (
	"context"
	"sync"
	"time"

	"github.com/smartdetector/iot-alerting/internal/pkg/infrastructure/logging"
)

const HeartbeatInterval = 15 * time.Second

// Heartbeat broadcasts a ping to all subscribers at a fixed interval so that
// clients can tell a dead link from a quiet one.
type Heartbeat struct {
	mu       sync.Mutex
	b        Broadcaster
	interval time.Duration
	now      func() time.Time
	cancel   context.CancelFunc
	done     chan struct{}
}

func NewHeartbeat(b Broadcaster, interval time.Duration) *Heartbeat {
	if interval <= 0 {
		interval = HeartbeatInterval
	}

	return &Heartbeat{
		b:        b,
		interval: interval,
		now:      time.Now,
	}
}

// Start runs the heartbeat until Stop is called or ctx is cancelled. Calling
// Start on a running heartbeat does nothing.
func (h *Heartbeat) Start(ctx context.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.cancel != nil {
		return
	}

	ctx, h.cancel = context.WithCancel(ctx)
	h.done = make(chan struct{})

	go h.run(ctx, h.done)
}

// Stop cancels the heartbeat and waits for it to exit. A pending wait is
// aborted, not awaited.
func (h *Heartbeat) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.cancel == nil {
		return
	}

	h.cancel()
	<-h.done

	h.cancel = nil
	h.done = nil
}

func (h *Heartbeat) run(ctx context.Context, done chan<- struct{}) {
	defer close(done)

	logger := logging.GetFromContext(ctx)
	logger.Debug().Msgf("heartbeat started, interval %s", h.interval)

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Debug().Msg("heartbeat stopped")
			return
		case <-ticker.C:
			h.b.Broadcast(ctx, NewPingEvent(h.now()))
		}
	}
}
