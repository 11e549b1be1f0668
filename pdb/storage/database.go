package storage

import (
	"context"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/wbrown/janus-pdb/pdb"
	"github.com/wbrown/janus-pdb/pdb/annotations"
	"github.com/wbrown/janus-pdb/pdb/heuristic"
)

// Options configures a Database
type Options struct {
	Path      string              // badger directory; empty for an in-memory store
	CacheSize int                 // databases kept in memory
	Handler   annotations.Handler // receives registry, store and build events
	Build     heuristic.BuildOptions
}

// DefaultOptions returns the default database options for path
func DefaultOptions(path string) Options {
	return Options{
		Path:      path,
		CacheSize: 64,
		Build:     heuristic.DefaultBuildOptions(),
	}
}

// Database hands out pattern databases, building each at most once per
// process and persisting distance tables across runs.
type Database struct {
	store   Store
	cache   *lru.Cache[string, *heuristic.PatternDatabase]
	handler annotations.Handler
	build   heuristic.BuildOptions
}

// NewDatabase opens a badger-backed database
func NewDatabase(opts Options) (*Database, error) {
	store, err := NewBadgerStore(opts.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to create store: %w", err)
	}

	db, err := NewDatabaseWithStore(store, opts)
	if err != nil {
		store.Close()
		return nil, err
	}
	return db, nil
}

// NewDatabaseWithStore wraps an existing store
func NewDatabaseWithStore(store Store, opts Options) (*Database, error) {
	if opts.CacheSize <= 0 {
		opts.CacheSize = 64
	}
	cache, err := lru.New[string, *heuristic.PatternDatabase](opts.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create cache: %w", err)
	}

	build := opts.Build
	if build.Handler == nil {
		build.Handler = opts.Handler
	}

	return &Database{
		store:   store,
		cache:   cache,
		handler: opts.Handler,
		build:   build,
	}, nil
}

// Store returns the underlying table store
func (d *Database) Store() Store {
	return d.store
}

// PatternDatabase returns the pattern database of task projected onto
// pattern: from memory, from the store, or freshly built and saved.
func (d *Database) PatternDatabase(task *pdb.Task, pattern pdb.Pattern) (*heuristic.PatternDatabase, error) {
	return d.patternDatabase(task, pattern, annotations.NewCollector(d.handler))
}

// patternDatabase resolves one pattern, reporting to a collector scoped
// to this call.
func (d *Database) patternDatabase(task *pdb.Task, pattern pdb.Pattern, collector *annotations.Collector) (*heuristic.PatternDatabase, error) {
	key := KeyFor(task, pattern)

	if db, ok, err := d.lookup(task, key, collector); err != nil || ok {
		return db, err
	}

	db, err := heuristic.NewPatternDatabaseWithOptions(task, pattern, d.build)
	if err != nil {
		return nil, err
	}
	if err := d.save(key, db, collector); err != nil {
		return nil, err
	}
	return db, nil
}

// PatternDatabases resolves several patterns at once. Databases missing
// from memory and from the store are built in parallel.
func (d *Database) PatternDatabases(ctx context.Context, task *pdb.Task, patterns []pdb.Pattern) ([]*heuristic.PatternDatabase, error) {
	collector := annotations.NewCollector(d.handler)
	results := make([]*heuristic.PatternDatabase, len(patterns))
	keys := make([]Key, len(patterns))

	var missing []pdb.Pattern
	var missingAt []int
	for i, pattern := range patterns {
		keys[i] = KeyFor(task, pattern)
		db, ok, err := d.lookup(task, keys[i], collector)
		if err != nil {
			return nil, err
		}
		if ok {
			results[i] = db
			continue
		}
		missing = append(missing, pattern)
		missingAt = append(missingAt, i)
	}

	built, err := heuristic.BuildAll(ctx, task, missing, d.build)
	if err != nil {
		return nil, err
	}
	for j, db := range built {
		i := missingAt[j]
		if err := d.save(keys[i], db, collector); err != nil {
			return nil, err
		}
		results[i] = db
	}
	return results, nil
}

// Forget drops a database from memory and from the store
func (d *Database) Forget(task *pdb.Task, pattern pdb.Pattern) error {
	key := KeyFor(task, pattern)
	d.cache.Remove(key.String())
	return d.store.Delete(key)
}

// CacheLen returns the number of databases held in memory
func (d *Database) CacheLen() int {
	return d.cache.Len()
}

// Close closes the underlying store
func (d *Database) Close() error {
	d.cache.Purge()
	return d.store.Close()
}

// lookup checks memory, then the store
func (d *Database) lookup(task *pdb.Task, key Key, collector *annotations.Collector) (*heuristic.PatternDatabase, bool, error) {
	start := time.Now()
	if db, ok := d.cache.Get(key.String()); ok {
		if collector.Enabled() {
			collector.AddTiming(annotations.RegistryHit, start, map[string]interface{}{
				"pattern": key.Pattern.String(),
			})
		}
		return db, true, nil
	}

	distances, ok, err := d.store.Load(key)
	if err != nil {
		if collector.Enabled() {
			collector.AddTiming(annotations.ErrorBackend, start, map[string]interface{}{"error": err})
		}
		return nil, false, err
	}
	if !ok {
		if collector.Enabled() {
			collector.AddTiming(annotations.StoreMiss, start, map[string]interface{}{
				"pattern": key.Pattern.String(),
			})
		}
		return nil, false, nil
	}

	db, err := heuristic.FromDistances(task, key.Pattern, distances)
	if err != nil {
		return nil, false, fmt.Errorf("stored table %s: %w", key, err)
	}
	d.cache.Add(key.String(), db)
	if collector.Enabled() {
		collector.AddTiming(annotations.StoreHit, start, map[string]interface{}{
			"pattern":      key.Pattern.String(),
			"states.count": len(distances),
		})
	}
	return db, true, nil
}

// save persists a freshly built database and caches it
func (d *Database) save(key Key, db *heuristic.PatternDatabase, collector *annotations.Collector) error {
	start := time.Now()
	size, err := d.store.Save(key, db.Distances())
	if err != nil {
		if collector.Enabled() {
			collector.AddTiming(annotations.ErrorBackend, start, map[string]interface{}{"error": err})
		}
		return err
	}
	d.cache.Add(key.String(), db)
	if collector.Enabled() {
		collector.AddTiming(annotations.StoreSaved, start, map[string]interface{}{
			"pattern": key.Pattern.String(),
			"bytes":   size,
		})
	}
	return nil
}
