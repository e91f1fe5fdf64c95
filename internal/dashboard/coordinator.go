package dashboard

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rileyhilliard/actop/internal/errors"
	"github.com/rileyhilliard/actop/internal/logger"
)

// OfflineMessage is the banner shown after a refresh batch fails.
const OfflineMessage = "Unable to connect to Actuator endpoints. Please verify that Spring Boot Actuator is configured correctly."

// DefaultInterval is the auto-refresh period when none is configured.
const DefaultInterval = 5 * time.Second

// Display receives everything a refresh produces. Implementations must be
// safe for concurrent use: groups render their regions from their own
// goroutines.
type Display interface {
	RenderRegion(r Region)
	SetRefreshing(refreshing bool)
	SetConnectivity(online bool)
	ShowError(msg string)
	ClearError()
}

// Ticker delivers auto-refresh ticks.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TickerFactory creates a Ticker firing every d.
type TickerFactory func(d time.Duration) Ticker

type timeTicker struct {
	t *time.Ticker
}

func (t timeTicker) C() <-chan time.Time { return t.t.C }
func (t timeTicker) Stop()               { t.t.Stop() }

// NewTimeTicker is the TickerFactory backed by time.Ticker.
func NewTimeTicker(d time.Duration) Ticker {
	return timeTicker{t: time.NewTicker(d)}
}

// Coordinator runs the dashboard's refresh cycle: it fans out every group
// for each refresh, waits for all of them, and tracks whether the actuator
// is reachable. Each Coordinator owns its own state.
type Coordinator struct {
	groups    []Group
	display   Display
	interval  time.Duration
	timeout   time.Duration
	log       logger.Logger
	newTicker TickerFactory

	mu         sync.Mutex
	ctx        context.Context
	online     bool
	visible    bool
	refreshing int
	ticker     Ticker
	done       chan struct{}

	tickInFlight atomic.Bool
}

// NewCoordinator creates a coordinator for groups rendering to display.
// A non-positive interval uses DefaultInterval.
func NewCoordinator(groups []Group, display Display, interval time.Duration) *Coordinator {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Coordinator{
		groups:    groups,
		display:   display,
		interval:  interval,
		log:       logger.Noop(),
		newTicker: NewTimeTicker,
		ctx:       context.Background(),
		visible:   true,
	}
}

// SetTimeout bounds each refresh. A refresh still running when it elapses
// counts as a failed refresh. Zero disables the bound.
func (c *Coordinator) SetTimeout(timeout time.Duration) {
	c.timeout = timeout
}

// SetLogger sets the diagnostic logger.
func (c *Coordinator) SetLogger(log logger.Logger) {
	if log != nil {
		c.log = log
	}
}

// SetTicker replaces the ticker factory used by StartAutoRefresh.
func (c *Coordinator) SetTicker(f TickerFactory) {
	if f != nil {
		c.newTicker = f
	}
}

// Interval returns the auto-refresh period.
func (c *Coordinator) Interval() time.Duration {
	return c.interval
}

// Start performs the initial refresh in the background and begins auto
// refresh. ctx bounds every refresh the coordinator starts from now on.
func (c *Coordinator) Start(ctx context.Context) {
	c.mu.Lock()
	c.ctx = ctx
	c.mu.Unlock()

	go c.Refresh(ctx)
	c.StartAutoRefresh()
}

// Stop ends auto refresh. A refresh already in flight still completes.
func (c *Coordinator) Stop() {
	c.StopAutoRefresh()
}

// Refresh runs every group concurrently and waits for all of them. Group
// failures only affect their own region. Connectivity goes offline, with a
// banner, only when the batch itself fails: a group panicked, the refresh
// deadline passed, or not one request got a response from the actuator.
// Refresh never returns an error.
func (c *Coordinator) Refresh(ctx context.Context) {
	c.beginRefresh()
	defer c.endRefresh()

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	tasks := make([]Task, len(c.groups))
	for i, g := range c.groups {
		g := g
		tasks[i] = func(ctx context.Context) error { return c.runGroup(ctx, g) }
	}

	ctx, reach := withReachability(ctx)
	err := Join(ctx, tasks...)
	if err == nil && reach.lost() {
		err = errors.New(errors.ErrRefresh,
			fmt.Sprintf("none of %d actuator requests got a response", reach.attempts.Load()), "")
	}
	if err != nil {
		c.log.Error("refresh failed after %v: %s", time.Since(start).Round(time.Millisecond), errors.Short(err))
		c.setConnectivity(false)
		c.display.ShowError(OfflineMessage)
		return
	}

	c.log.Debug("refresh completed in %v", time.Since(start).Round(time.Millisecond))
	c.setConnectivity(true)
	c.display.ClearError()
}

// runGroup runs one group and renders its region. Group errors become an
// error marker and are not reported to Join; a panic is.
func (c *Coordinator) runGroup(ctx context.Context, g Group) (err error) {
	defer func() {
		if r := recover(); r != nil {
			c.log.Error("%s group panicked: %v\n%s", g.Name(), r, debug.Stack())
			c.display.RenderRegion(ErrorRegion{Of: g.Kind, Message: fmt.Sprintf("internal error: %v", r)})
			err = &PanicError{Value: r}
		}
	}()

	region, runErr := g.Run(ctx)
	if runErr != nil {
		c.log.Warn("%s group failed: %s", g.Name(), errors.Short(runErr))
		c.display.RenderRegion(ErrorRegion{Of: g.Kind, Message: errors.Short(runErr)})
		return nil
	}
	if region == nil {
		region = ErrorRegion{Of: g.Kind, Message: "no data"}
	}
	c.display.RenderRegion(region)
	return nil
}

// beginRefresh and endRefresh keep the refreshing affordance on while any
// refresh is running. The display is called without holding mu.
func (c *Coordinator) beginRefresh() {
	c.mu.Lock()
	c.refreshing++
	first := c.refreshing == 1
	c.mu.Unlock()
	if first {
		c.display.SetRefreshing(true)
	}
}

func (c *Coordinator) endRefresh() {
	c.mu.Lock()
	c.refreshing--
	last := c.refreshing == 0
	c.mu.Unlock()
	if last {
		c.display.SetRefreshing(false)
	}
}

func (c *Coordinator) setConnectivity(online bool) {
	c.mu.Lock()
	c.online = online
	c.mu.Unlock()
	c.display.SetConnectivity(online)
}

// StartAutoRefresh starts the refresh ticker, replacing any running one.
func (c *Coordinator) StartAutoRefresh() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopLocked()
	t := c.newTicker(c.interval)
	done := make(chan struct{})
	c.ticker, c.done = t, done
	go c.loop(c.ctx, t, done)
	c.log.Debug("auto refresh every %v", c.interval)
}

// StopAutoRefresh stops the refresh ticker. It is safe to call when none is
// running.
func (c *Coordinator) StopAutoRefresh() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ticker != nil {
		c.log.Debug("auto refresh stopped")
	}
	c.stopLocked()
}

func (c *Coordinator) stopLocked() {
	if c.ticker == nil {
		return
	}
	c.ticker.Stop()
	close(c.done)
	c.ticker, c.done = nil, nil
}

func (c *Coordinator) loop(ctx context.Context, t Ticker, done chan struct{}) {
	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			return
		case <-t.C():
			c.tick(ctx, done)
		}
	}
}

// tick refreshes when the dashboard is visible or already online. It is
// skipped while the previous ticked refresh is still running.
func (c *Coordinator) tick(ctx context.Context, done chan struct{}) {
	c.mu.Lock()
	current := c.done == done
	run := c.visible || c.online
	c.mu.Unlock()

	if !current {
		return
	}
	if !run {
		c.log.Debug("tick skipped: hidden and offline")
		return
	}
	if !c.tickInFlight.CompareAndSwap(false, true) {
		c.log.Debug("tick skipped: previous refresh still running")
		return
	}

	go func() {
		defer c.tickInFlight.Store(false)
		c.Refresh(ctx)
	}()
}

// SetVisible reports whether the dashboard is being looked at. Hiding it
// stops auto refresh; showing it refreshes once right away and restarts
// auto refresh.
func (c *Coordinator) SetVisible(visible bool) {
	c.mu.Lock()
	c.visible = visible
	ctx := c.ctx
	c.mu.Unlock()

	if !visible {
		c.StopAutoRefresh()
		return
	}
	go c.Refresh(ctx)
	c.StartAutoRefresh()
}

// NoteVisible records visibility without starting or stopping auto
// refresh, for when the user has paused it by hand.
func (c *Coordinator) NoteVisible(visible bool) {
	c.mu.Lock()
	c.visible = visible
	c.mu.Unlock()
}

// Online reports the connectivity seen by the last completed refresh.
func (c *Coordinator) Online() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.online
}

// Visible reports the last visibility passed to SetVisible. It starts true.
func (c *Coordinator) Visible() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.visible
}

// AutoRefreshing reports whether a refresh ticker is running.
func (c *Coordinator) AutoRefreshing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ticker != nil
}
