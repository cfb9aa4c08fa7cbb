package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/ostvang/leaguedesk/internal/domain/notification"
	"github.com/panjf2000/ants/v2"
)

const broadcastPushTimeout = 5 * time.Second

// BroadcastDispatcher fans notification events out to the realtime
// broadcaster on a bounded worker pool. Pushes are decoupled from the
// request that produced them: the worker runs with its own deadline,
// and a failed or rejected push is logged and dropped.
type BroadcastDispatcher struct {
	broadcaster notification.Broadcaster
	pool        *ants.Pool
	logger      *slog.Logger
}

func NewBroadcastDispatcher(broadcaster notification.Broadcaster, workers int, logger *slog.Logger) (*BroadcastDispatcher, error) {
	if workers < 1 {
		workers = 4
	}
	if logger == nil {
		logger = slog.Default()
	}

	pool, err := ants.NewPool(workers, ants.WithNonblocking(true))
	if err != nil {
		return nil, err
	}

	return &BroadcastDispatcher{
		broadcaster: broadcaster,
		pool:        pool,
		logger:      logger,
	}, nil
}

func (d *BroadcastDispatcher) Dispatch(e notification.Event) {
	if d == nil || d.broadcaster == nil {
		return
	}

	err := d.pool.Submit(func() {
		ctx, cancel := context.WithTimeout(context.Background(), broadcastPushTimeout)
		defer cancel()

		if err := d.broadcaster.Push(ctx, e); err != nil {
			d.logger.Warn("realtime push failed", "channel", e.Channel, "event", e.Name, "error", err)
		}
	})
	if err != nil {
		d.logger.Warn("realtime push dropped", "channel", e.Channel, "event", e.Name, "error", err)
	}
}

func (d *BroadcastDispatcher) Close() {
	if d == nil || d.pool == nil {
		return
	}
	d.pool.Release()
}
