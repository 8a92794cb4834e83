package web

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/PauloHFS/avala/internal/game"
	"github.com/PauloHFS/avala/internal/logging"
)

// AnnounceTicks broadcasts a "tick" event whenever the game clock moves to a
// new tick, so open dashboards refresh their counters. It returns when ctx
// is done.
func AnnounceTicks(ctx context.Context, clock *game.Clock, b *Broker, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	last := clock.TickNumber()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			tick := clock.TickNumber()
			if tick == last {
				continue
			}
			last = tick
			logging.Get().Debug("game tick advanced", slog.Int("tick", tick))
			b.Broadcast("tick", strconv.Itoa(tick))
		}
	}
}
