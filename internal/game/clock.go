// Package game computes tick numbers for the running attack/defense game.
package game

import (
	"fmt"
	"time"

	"github.com/PauloHFS/avala/internal/config"
)

type Clock struct {
	Start time.Time
	Tick  time.Duration
	Now   func() time.Time
}

// NewClock requires a positive tick duration.
func NewClock(g config.Game) (*Clock, error) {
	if g.Tick() <= 0 {
		return nil, fmt.Errorf("invalid tick duration %ds", g.TickDuration)
	}
	start, err := g.Start()
	if err != nil {
		return nil, err
	}
	return &Clock{Start: start, Tick: g.Tick(), Now: time.Now}, nil
}

func (c *Clock) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

func (c *Clock) Started() bool {
	return !c.now().Before(c.Start)
}

// TickNumber returns 0 before the game starts, the 1-based tick otherwise.
func (c *Clock) TickNumber() int {
	now := c.now()
	if now.Before(c.Start) {
		return 0
	}
	return int(now.Sub(c.Start)/c.Tick) + 1
}

func (c *Clock) NextTickStart() time.Time {
	now := c.now()
	if now.Before(c.Start) {
		return c.Start
	}
	elapsed := now.Sub(c.Start) % c.Tick
	return now.Add(c.Tick - elapsed)
}
