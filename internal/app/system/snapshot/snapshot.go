// Package snapshot maintains a live in-memory copy of the registry
// collections for the read endpoints and the pending evaluator.
//
// Each collection is fully loaded at startup and fully reloaded whenever its
// change stream reports an event, so readers always see whole-collection
// states, never partial diffs. When a change stream cannot be opened or
// fails (standalone mongod, network loss), the failure is logged as a
// warning and the snapshot keeps serving its last loaded state; reads may
// go stale but never error.
package snapshot

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	deletedstore "github.com/psalmeida/organregistry/internal/app/store/deleted"
	locationstore "github.com/psalmeida/organregistry/internal/app/store/locations"
	maintenancestore "github.com/psalmeida/organregistry/internal/app/store/maintenances"
	organstore "github.com/psalmeida/organregistry/internal/app/store/organs"
	"github.com/psalmeida/organregistry/internal/app/system/pending"
	"github.com/psalmeida/organregistry/internal/domain/models"
)

// retryDelay spaces out change-stream reopen attempts after a failure.
const retryDelay = 30 * time.Second

// Cache is the live snapshot. Safe for concurrent use.
type Cache struct {
	organs       *organstore.Store
	maintenances *maintenancestore.Store
	deleted      *deletedstore.Store
	locations    *locationstore.Store
	log          *zap.Logger

	mu         sync.RWMutex
	organData  []models.Organ
	maintData  []models.Maintenance
	delData    []models.DeletedItem
	locData    []models.Location
	loadedMask map[string]bool

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a Cache over the four stores. Call Load before serving and
// Start to begin watching for changes.
func New(organs *organstore.Store, maintenances *maintenancestore.Store, deleted *deletedstore.Store, locations *locationstore.Store, log *zap.Logger) *Cache {
	return &Cache{
		organs:       organs,
		maintenances: maintenances,
		deleted:      deleted,
		locations:    locations,
		log:          log,
		loadedMask:   make(map[string]bool, 4),
	}
}

// Load performs the initial full load of every collection. A failing
// collection is logged and marked loaded anyway so readiness is not held
// hostage by one collection; its data stays empty until a reload succeeds.
func (c *Cache) Load(ctx context.Context) {
	c.reload(ctx, "organs")
	c.reload(ctx, "maintenances")
	c.reload(ctx, "deletedItems")
	c.reload(ctx, "locations")
}

// Refresh re-reads every collection. Write handlers call it after a
// successful mutation so readers see the change even when change streams
// are unavailable (standalone mongod).
func (c *Cache) Refresh(ctx context.Context) {
	c.Load(ctx)
}

// Start launches one change-stream watcher per collection. Watchers run
// until Stop is called.
func (c *Cache) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel

	for _, w := range []struct {
		name string
		coll *mongo.Collection
	}{
		{"organs", c.organs.Collection()},
		{"maintenances", c.maintenances.Collection()},
		{"deletedItems", c.deleted.Collection()},
		{"locations", c.locations.Collection()},
	} {
		c.wg.Add(1)
		go c.watch(ctx, w.name, w.coll)
	}

	c.log.Info("snapshot watchers started")
}

// Stop shuts down the watchers and waits for them to finish.
func (c *Cache) Stop() {
	if c.cancel != nil {
		c.cancel()
	}
	c.wg.Wait()
	c.log.Info("snapshot watchers stopped")
}

// Ready reports whether every collection has completed its initial load.
func (c *Cache) Ready() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.loadedMask) == 4
}

// Organs returns the current organ snapshot.
func (c *Cache) Organs() []models.Organ {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.organData
}

// Maintenances returns the current maintenance snapshot.
func (c *Cache) Maintenances() []models.Maintenance {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.maintData
}

// DeletedItems returns the current audit-trail snapshot.
func (c *Cache) DeletedItems() []models.DeletedItem {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.delData
}

// Locations returns the current location snapshot.
func (c *Cache) Locations() []models.Location {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.locData
}

// Organ looks up an organ by ID in the snapshot.
func (c *Cache) Organ(id string) (models.Organ, bool) {
	for _, o := range c.Organs() {
		if o.ID == id {
			return o, true
		}
	}
	return models.Organ{}, false
}

// Location looks up a location by ID in the snapshot.
func (c *Cache) Location(id string) (models.Location, bool) {
	for _, l := range c.Locations() {
		if l.ID == id {
			return l, true
		}
	}
	return models.Location{}, false
}

// OrganExists reports whether the snapshot contains the organ.
func (c *Cache) OrganExists(id string) bool {
	_, ok := c.Organ(id)
	return ok
}

// LocationExists reports whether the snapshot contains the location.
func (c *Cache) LocationExists(id string) bool {
	_, ok := c.Location(id)
	return ok
}

// Evaluator returns a pending evaluator over the current snapshot. The
// evaluator reads the wall clock on every call, so results are never cached
// across requests.
func (c *Cache) Evaluator() *pending.Evaluator {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return pending.New(c.organData, c.maintData, c.locData)
}

// reload replaces one collection's snapshot with a fresh full read. The
// collection is marked loaded even on failure so a broken subscription
// degrades to stale data instead of blocking readiness.
func (c *Cache) reload(ctx context.Context, name string) {
	var err error
	switch name {
	case "organs":
		var data []models.Organ
		if data, err = c.organs.All(ctx); err == nil {
			c.mu.Lock()
			c.organData = data
			c.mu.Unlock()
		}
	case "maintenances":
		var data []models.Maintenance
		if data, err = c.maintenances.All(ctx); err == nil {
			c.mu.Lock()
			c.maintData = data
			c.mu.Unlock()
		}
	case "deletedItems":
		var data []models.DeletedItem
		if data, err = c.deleted.All(ctx); err == nil {
			c.mu.Lock()
			c.delData = data
			c.mu.Unlock()
		}
	case "locations":
		var data []models.Location
		if data, err = c.locations.All(ctx); err == nil {
			c.mu.Lock()
			c.locData = data
			c.mu.Unlock()
		}
	}

	if err != nil {
		c.log.Warn("snapshot load failed; keeping previous data",
			zap.String("collection", name),
			zap.Error(err))
	}

	c.mu.Lock()
	c.loadedMask[name] = true
	c.mu.Unlock()
}

// watch tails the collection's change stream, reloading the full collection
// on every event. Stream failures are logged and retried after a delay; the
// snapshot keeps serving the last loaded state in between.
func (c *Cache) watch(ctx context.Context, name string, coll *mongo.Collection) {
	defer c.wg.Done()

	for {
		stream, err := coll.Watch(ctx, mongo.Pipeline{})
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.log.Warn("change stream unavailable; snapshot may go stale",
				zap.String("collection", name),
				zap.Error(err))
			select {
			case <-ctx.Done():
				return
			case <-time.After(retryDelay):
				continue
			}
		}

		for stream.Next(ctx) {
			c.reload(ctx, name)
		}
		streamErr := stream.Err()
		_ = stream.Close(context.Background())

		if ctx.Err() != nil {
			return
		}
		if streamErr != nil {
			c.log.Warn("change stream interrupted; snapshot may go stale",
				zap.String("collection", name),
				zap.Error(streamErr))
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(retryDelay):
		}
	}
}
