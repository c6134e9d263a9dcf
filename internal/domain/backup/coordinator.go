package backup

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/chikhaoui-amine/LifeOS-web-app-sub002/internal/domain/ledger"
)

// pendingEchoTTL bounds how long an unacknowledged publish is remembered.
// An echo that has not arrived after this window was lost or superseded.
const pendingEchoTTL = time.Minute

// Coordinator keeps the remote snapshot eventually consistent with the local
// ledger store. Every successful local mutation publishes the whole state;
// every inbound notification that is not an echo of this device's own write
// replaces the local state wholesale (last-writer-wins).
//
// Publishing is best-effort: a failed or slow publish never blocks or rolls
// back the local mutation, which is already durable locally. There is no
// retry queue; the next successful mutation's publish supersedes a failure.
type Coordinator struct {
	store  *ledger.Store
	bridge Bridge
	device string
	log    zerolog.Logger
	now    func() time.Time

	mu      sync.Mutex
	pending map[string]time.Time
}

// NewCoordinator wires a store to a remote bridge. The device tag marks this
// process's publishes so its own echoes can be discarded.
func NewCoordinator(store *ledger.Store, bridge Bridge, device string, log zerolog.Logger) *Coordinator {
	return &Coordinator{
		store:   store,
		bridge:  bridge,
		device:  device,
		log:     log,
		now:     time.Now,
		pending: make(map[string]time.Time),
	}
}

// Start registers the mutation hook and establishes the remote subscription.
// ctx bounds the subscription lifetime.
func (c *Coordinator) Start(ctx context.Context) error {
	c.store.OnMutate(func(st ledger.State) {
		c.publish(ctx, st)
	})
	if err := c.bridge.Subscribe(ctx, func(doc Document) {
		c.apply(ctx, doc)
	}); err != nil {
		return fmt.Errorf("subscribe to remote snapshot: %w", err)
	}
	return nil
}

// PublishNow publishes the current state regardless of mutations, e.g. from
// the scheduled backup job.
func (c *Coordinator) PublishNow(ctx context.Context) error {
	doc := Document{
		BackupData:  c.store.State(),
		LastUpdated: c.stamp(),
		Device:      c.device,
	}
	c.track(doc.Key())
	if err := c.bridge.Publish(ctx, doc); err != nil {
		c.forget(doc.Key())
		return fmt.Errorf("publish snapshot: %w", err)
	}
	return nil
}

func (c *Coordinator) publish(ctx context.Context, st ledger.State) {
	doc := Document{
		BackupData:  st,
		LastUpdated: c.stamp(),
		Device:      c.device,
	}
	c.track(doc.Key())
	if err := c.bridge.Publish(ctx, doc); err != nil {
		c.forget(doc.Key())
		c.log.Warn().Err(err).Msg("remote publish failed, local state stays authoritative")
		return
	}
	c.log.Debug().Time("lastUpdated", doc.LastUpdated).Msg("snapshot published")
}

// apply handles an inbound remote notification. Echoes of this device's own
// unacknowledged writes are discarded so an optimistic local update is not
// immediately overwritten by itself; everything else is authoritative.
func (c *Coordinator) apply(ctx context.Context, doc Document) {
	if doc.Device == c.device && c.consume(doc.Key()) {
		c.log.Debug().Msg("discarding echo of own publish")
		return
	}
	if err := c.store.ReplaceAll(ctx, doc.BackupData); err != nil {
		c.log.Error().Err(err).Msg("failed to apply remote snapshot")
		return
	}
	c.log.Info().Str("device", doc.Device).Time("lastUpdated", doc.LastUpdated).Msg("remote snapshot applied")
}

// stamp truncates to microseconds: Firestore stores timestamps at that
// precision, and the echo key must survive a publish/notify round trip.
func (c *Coordinator) stamp() time.Time {
	return c.now().Truncate(time.Microsecond)
}

func (c *Coordinator) track(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	for k, at := range c.pending {
		if now.Sub(at) > pendingEchoTTL {
			delete(c.pending, k)
		}
	}
	c.pending[key] = now
}

func (c *Coordinator) forget(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.pending, key)
}

func (c *Coordinator) consume(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.pending[key]; ok {
		delete(c.pending, key)
		return true
	}
	return false
}
