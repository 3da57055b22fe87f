// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package clocksource

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/beevik/ntp"

	"github.com/gogpu/reverseclock"
)

// NTP defaults.
const (
	DefaultSyncInterval   = 10 * time.Minute
	DefaultBackoffInitial = 5 * time.Second
	DefaultBackoffMax     = 5 * time.Minute
	DefaultQueryTimeout   = 5 * time.Second
)

// QueryFunc returns the offset of the local clock relative to server.
type QueryFunc func(ctx context.Context, server string) (time.Duration, error)

// NTPOption configures an NTP clock.
type NTPOption func(*NTP)

// WithSyncInterval sets how long a successful offset is trusted.
func WithSyncInterval(d time.Duration) NTPOption {
	return func(c *NTP) {
		if d > 0 {
			c.syncInterval = d
		}
	}
}

// WithBackoff sets the retry delays after failed queries. The delay starts
// at initial and doubles up to maxDelay.
func WithBackoff(initial, maxDelay time.Duration) NTPOption {
	return func(c *NTP) {
		if initial > 0 {
			c.backoffInitial = initial
		}
		if maxDelay >= c.backoffInitial {
			c.backoffMax = maxDelay
		}
	}
}

// WithUnhealthyThreshold marks the clock unhealthy when the absolute offset
// exceeds d. Zero disables the check.
func WithUnhealthyThreshold(d time.Duration) NTPOption {
	return func(c *NTP) {
		c.unhealthyThreshold = d
	}
}

// WithQueryFunc replaces the network query.
func WithQueryFunc(q QueryFunc) NTPOption {
	return func(c *NTP) {
		if q != nil {
			c.query = q
		}
	}
}

// WithBase sets the clock the offset is applied to.
func WithBase(clock reverseclock.Clock) NTPOption {
	return func(c *NTP) {
		if clock != nil {
			c.base = clock
		}
	}
}

// NTP is a clock corrected by the offset reported by an NTP server.
//
// Now never blocks on the network: when the offset is due for a refresh it
// starts one background query and keeps using the last known offset. Failed
// queries are retried with exponential backoff.
type NTP struct {
	server             string
	query              QueryFunc
	base               reverseclock.Clock
	syncInterval       time.Duration
	backoffInitial     time.Duration
	backoffMax         time.Duration
	unhealthyThreshold time.Duration

	mu        sync.Mutex
	offset    time.Duration
	lastSync  time.Time
	lastTry   time.Time
	backoff   time.Duration
	lastError error
	syncing   bool
	wg        sync.WaitGroup
}

var _ reverseclock.Clock = (*NTP)(nil)

// NewNTP creates a clock synchronised against server, e.g. "pool.ntp.org".
// It performs one synchronous query; a failure is recorded in Health and
// the clock starts with a zero offset.
func NewNTP(ctx context.Context, server string, opts ...NTPOption) *NTP {
	c := &NTP{
		server:         server,
		query:          queryServer,
		base:           reverseclock.SystemClock,
		syncInterval:   DefaultSyncInterval,
		backoffInitial: DefaultBackoffInitial,
		backoffMax:     DefaultBackoffMax,
	}
	for _, opt := range opts {
		opt(c)
	}
	if err := c.Sync(ctx); err != nil {
		reverseclock.Logger().Warn("clocksource: initial NTP sync failed", "server", server, "err", err)
	}
	return c
}

func queryServer(ctx context.Context, server string) (time.Duration, error) {
	timeout := DefaultQueryTimeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = min(timeout, time.Until(deadline))
	}
	resp, err := ntp.QueryWithOptions(server, ntp.QueryOptions{Timeout: timeout})
	if err != nil {
		return 0, err
	}
	if err := resp.Validate(); err != nil {
		return 0, err
	}
	return resp.ClockOffset, nil
}

// Now returns the base time plus the current offset.
func (c *NTP) Now() time.Time {
	c.mu.Lock()
	offset := c.offset
	due := c.dueLocked()
	if due {
		c.syncing = true
		c.wg.Add(1)
	}
	c.mu.Unlock()

	if due {
		go func() {
			defer c.wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), DefaultQueryTimeout)
			defer cancel()
			_ = c.sync(ctx)
		}()
	}
	return c.base.Now().Add(offset)
}

// dueLocked reports whether a background refresh should start.
func (c *NTP) dueLocked() bool {
	if c.syncing {
		return false
	}
	wait := c.syncInterval
	if c.backoff > 0 {
		wait = c.backoff
	}
	return time.Since(c.lastTry) >= wait
}

// Sync queries the server now and updates the offset.
func (c *NTP) Sync(ctx context.Context) error {
	c.mu.Lock()
	c.syncing = true
	c.mu.Unlock()
	return c.sync(ctx)
}

func (c *NTP) sync(ctx context.Context) error {
	offset, err := c.query(ctx, c.server)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.syncing = false
	c.lastTry = time.Now()
	if err != nil {
		c.lastError = fmt.Errorf("clocksource: query %s: %w", c.server, err)
		if c.backoff == 0 {
			c.backoff = c.backoffInitial
		} else {
			c.backoff = min(c.backoff*2, c.backoffMax)
		}
		reverseclock.Logger().Debug("clocksource: NTP sync failed", "server", c.server, "retry", c.backoff, "err", err)
		return c.lastError
	}
	c.offset = offset
	c.lastSync = c.lastTry
	c.lastError = nil
	c.backoff = 0
	reverseclock.Logger().Debug("clocksource: NTP synced", "server", c.server, "offset", offset)
	return nil
}

// Wait blocks until background refreshes started by Now have finished.
func (c *NTP) Wait() {
	c.wg.Wait()
}

// Health describes the state of an NTP clock.
type Health struct {
	Server    string        `json:"server"`
	Healthy   bool          `json:"healthy"`
	Offset    time.Duration `json:"offset"`
	LastSync  time.Time     `json:"last_sync"`
	LastError string        `json:"last_error,omitempty"`
}

// Health reports whether the last query succeeded and the offset is within
// the unhealthy threshold.
func (c *NTP) Health() Health {
	c.mu.Lock()
	defer c.mu.Unlock()

	h := Health{
		Server:   c.server,
		Healthy:  c.lastError == nil && !c.lastSync.IsZero(),
		Offset:   c.offset,
		LastSync: c.lastSync,
	}
	if c.lastError != nil {
		h.LastError = c.lastError.Error()
	}
	if c.unhealthyThreshold > 0 && (c.offset > c.unhealthyThreshold || c.offset < -c.unhealthyThreshold) {
		h.Healthy = false
	}
	return h
}

// Offset returns the current correction.
func (c *NTP) Offset() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.offset
}
