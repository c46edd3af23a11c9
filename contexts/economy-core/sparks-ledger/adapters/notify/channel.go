package notify

import (
	"context"
	"log/slog"
	"sync"

	"taleforge/contexts/economy-core/sparks-ledger/ports"
)

// ChannelNotifier fans balance changes out to subscriber channels. Delivery
// is best-effort: a subscriber that stops draining loses changes rather than
// blocking the ledger write path.
type ChannelNotifier struct {
	mu          sync.RWMutex
	subscribers []chan ports.BalanceChange
	buffer      int
	logger      *slog.Logger
}

func NewChannelNotifier(buffer int, logger *slog.Logger) *ChannelNotifier {
	if buffer <= 0 {
		buffer = 64
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ChannelNotifier{
		buffer: buffer,
		logger: logger,
	}
}

func (n *ChannelNotifier) Subscribe() <-chan ports.BalanceChange {
	ch := make(chan ports.BalanceChange, n.buffer)
	n.mu.Lock()
	defer n.mu.Unlock()
	n.subscribers = append(n.subscribers, ch)
	return ch
}

func (n *ChannelNotifier) NotifyBalanceChanged(_ context.Context, change ports.BalanceChange) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	for _, ch := range n.subscribers {
		select {
		case ch <- change:
		default:
			n.logger.Warn("balance change dropped for slow subscriber",
				"event", "balance_change_dropped",
				"module", "economy-core/sparks-ledger",
				"layer", "adapter",
				"owner_id", change.OwnerID,
			)
		}
	}
}

// FanoutNotifier forwards each change to every wrapped notifier.
type FanoutNotifier []ports.BalanceNotifier

func (f FanoutNotifier) NotifyBalanceChanged(ctx context.Context, change ports.BalanceChange) {
	for _, notifier := range f {
		if notifier != nil {
			notifier.NotifyBalanceChanged(ctx, change)
		}
	}
}
