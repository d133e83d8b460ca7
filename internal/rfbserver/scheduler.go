package rfbserver

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/algofoogle/vncd/internal/rfbmsg"
	"github.com/algofoogle/vncd/internal/scene"
)

// scheduler emits at most one FramebufferUpdate per tick period, and only
// when the connection's refresh-pending flag is set (spec.md §4.F). The
// rate.Limiter enforces the cadence independently of how often the ticker
// itself fires, so a burst of requests collapses into one update per
// period rather than one per request.
type scheduler struct {
	limiter *rate.Limiter
	period  time.Duration
	scene   *scene.Generator
}

func newScheduler(period time.Duration, seed int64) *scheduler {
	return &scheduler{
		limiter: rate.NewLimiter(rate.Every(period), 1),
		period:  period,
		scene:   scene.NewGenerator(seed),
	}
}

// run ticks every period, checking and clearing the refresh-pending flag
// before emitting. It returns nil when ctx is cancelled, or the first
// write error encountered.
func (s *scheduler) run(ctx context.Context, c *Conn) error {
	ticker := time.NewTicker(s.period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if !c.takeRefreshPending() {
				continue
			}
			if !s.limiter.Allow() {
				c.RequestRefresh()
				continue
			}
			if err := s.emit(c); err != nil {
				return err
			}
		}
	}
}

func (s *scheduler) emit(c *Conn) error {
	x, y, _ := c.Cursor()
	rect := s.scene.Next(c.Format(), x, y)
	return rfbmsg.EncodeFramebufferUpdate(c.netConn, []rfbmsg.Rectangle{rect})
}
