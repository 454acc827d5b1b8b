package enrichment

import (
	"context"
	"errors"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"neonime/models"
	"neonime/services/ratelimit"
)

const (
	defaultSweepInterval = 30 * time.Second

	// Pause lengths used by the bulk sync loop.
	gateWait     = 5 * time.Second
	itemThrottle = time.Second
)

// ErrSyncRunning is returned when a bulk sync is requested while one is
// already in flight.
var ErrSyncRunning = errors.New("sync already running")

// Store is the slice of the library the coordinator needs.
type Store interface {
	Entries() []models.AnimeEntry
	Get(id string) (models.AnimeEntry, error)
	ApplyEnrichment(id string, result *models.EnrichmentResult) (models.AnimeEntry, error)
}

// Resolver fetches metadata for a title.
type Resolver interface {
	Resolve(ctx context.Context, title string) (*models.EnrichmentResult, error)
}

// Coordinator drives metadata enrichment three ways: a periodic background
// sweep that fixes one entry at a time, an explicit bulk sync over every
// pending entry, and on-demand enrichment for a single id. The sweep and
// the bulk sync share a busy flag so they never run at once.
type Coordinator struct {
	library  Store
	resolver Resolver
	gate     *ratelimit.Gate

	interval time.Duration
	sleep    func(ctx context.Context, d time.Duration)

	busy atomic.Bool

	progressMu sync.Mutex
	progress   models.SyncProgress

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

func NewCoordinator(library Store, resolver Resolver, gate *ratelimit.Gate, interval time.Duration) *Coordinator {
	if interval <= 0 {
		interval = defaultSweepInterval
	}
	return &Coordinator{
		library:  library,
		resolver: resolver,
		gate:     gate,
		interval: interval,
		sleep:    sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

// Start launches the background sweep loop.
func (c *Coordinator) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.running = true

	c.wg.Add(1)
	go c.sweepLoop(ctx)
	log.Printf("[enrichment] background sweep started, interval %s", c.interval)
}

// Stop halts the sweep loop and waits for it to exit.
func (c *Coordinator) Stop() {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return
	}
	c.cancel()
	c.running = false
	c.mu.Unlock()

	c.wg.Wait()
	log.Printf("[enrichment] background sweep stopped")
}

func (c *Coordinator) sweepLoop(ctx context.Context) {
	defer c.wg.Done()
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.SweepOnce(ctx)
		}
	}
}

// SweepOnce enriches the first pending entry, if any. It does nothing when
// a sync is already in flight or the rate limit gate is closed.
func (c *Coordinator) SweepOnce(ctx context.Context) {
	if !c.busy.CompareAndSwap(false, true) {
		return
	}
	defer c.busy.Store(false)

	if c.gate.Limited() {
		return
	}

	for _, e := range c.library.Entries() {
		if StateOf(e) != StatePending {
			continue
		}
		if err := c.enrich(ctx, e); err != nil {
			log.Printf("[enrichment] sweep failed for %q: %v", e.Title, err)
		}
		return
	}
}

// Pending lists the bulk sync's targets: unenriched entries plus any entry
// missing poster, studio or release date regardless of its flag.
func (c *Coordinator) Pending() []models.AnimeEntry {
	var out []models.AnimeEntry
	for _, e := range c.library.Entries() {
		if StateOf(e) == StatePending || e.Poster == "" || e.Studio == "" || e.ReleaseDate == "" {
			out = append(out, e)
		}
	}
	return out
}

// BulkSync enriches every pending entry in order. It pauses while the rate
// limit gate is closed and throttles between items so a large list does not
// hammer the upstream API. Only one bulk sync runs at a time.
func (c *Coordinator) BulkSync(ctx context.Context) error {
	if !c.busy.CompareAndSwap(false, true) {
		return ErrSyncRunning
	}
	defer c.busy.Store(false)
	return c.runBulk(ctx)
}

// BulkSyncAsync claims the busy flag and runs the sync in the background.
func (c *Coordinator) BulkSyncAsync() error {
	if !c.busy.CompareAndSwap(false, true) {
		return ErrSyncRunning
	}
	go func() {
		defer c.busy.Store(false)
		if err := c.runBulk(context.Background()); err != nil {
			log.Printf("[enrichment] background sync aborted: %v", err)
		}
	}()
	return nil
}

func (c *Coordinator) runBulk(ctx context.Context) error {
	targets := c.Pending()
	c.setProgress(models.SyncProgress{Running: true, Current: 0, Total: len(targets)})
	defer func() {
		c.progressMu.Lock()
		c.progress.Running = false
		c.progressMu.Unlock()
	}()

	log.Printf("[enrichment] bulk sync started, %d entries", len(targets))
	for i, e := range targets {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if c.gate.Limited() {
			c.sleep(ctx, gateWait)
		}
		if err := c.enrich(ctx, e); err != nil {
			log.Printf("[enrichment] sync failed for %q: %v", e.Title, err)
		}
		c.setProgress(models.SyncProgress{Running: true, Current: i + 1, Total: len(targets)})
		c.sleep(ctx, itemThrottle)
	}
	log.Printf("[enrichment] bulk sync finished")
	return nil
}

// EnrichNow fetches metadata for one entry immediately. It does not take
// the busy flag, a user-triggered fetch should not wait for the sweep.
func (c *Coordinator) EnrichNow(ctx context.Context, id string) (models.AnimeEntry, error) {
	entry, err := c.library.Get(id)
	if err != nil {
		return models.AnimeEntry{}, err
	}
	result, err := c.resolver.Resolve(ctx, entry.Title)
	if err != nil {
		return models.AnimeEntry{}, err
	}
	if result == nil {
		return entry, nil
	}
	return c.library.ApplyEnrichment(id, result)
}

// Progress reports the state of the current or last bulk sync.
func (c *Coordinator) Progress() models.SyncProgress {
	c.progressMu.Lock()
	defer c.progressMu.Unlock()
	return c.progress
}

func (c *Coordinator) setProgress(p models.SyncProgress) {
	c.progressMu.Lock()
	c.progress = p
	c.progressMu.Unlock()
}

func (c *Coordinator) enrich(ctx context.Context, e models.AnimeEntry) error {
	result, err := c.resolver.Resolve(ctx, e.Title)
	if err != nil {
		return err
	}
	if result == nil {
		// No match upstream, leave the entry for a later pass.
		return nil
	}
	_, err = c.library.ApplyEnrichment(e.ID, result)
	return err
}
