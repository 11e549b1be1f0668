package storage

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wbrown/janus-pdb/pdb"
	"github.com/wbrown/janus-pdb/pdb/annotations"
	"github.com/wbrown/janus-pdb/pdb/heuristic"
	"github.com/wbrown/janus-pdb/pdb/tasks"
)

// eventLog records event names from concurrent builds
type eventLog struct {
	mu    sync.Mutex
	names []string
}

func (l *eventLog) handle(e annotations.Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.names = append(l.names, e.Name)
}

func (l *eventLog) take() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	names := l.names
	l.names = nil
	return names
}

func (l *eventLog) count(name string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, got := range l.names {
		if got == name {
			n++
		}
	}
	return n
}

func TestDatabaseResolutionOrder(t *testing.T) {
	store, err := NewBadgerStore("")
	require.NoError(t, err)
	defer store.Close()

	log := &eventLog{}
	opts := DefaultOptions("")
	opts.Handler = log.handle

	task := tasks.Logistics(3, 2)
	pattern := pdb.Pattern{0, 1}

	db, err := NewDatabaseWithStore(store, opts)
	require.NoError(t, err)

	// Cold: not in memory, not in the store, so it is built and saved.
	built, err := db.PatternDatabase(task, pattern)
	require.NoError(t, err)
	assert.Equal(t, []string{
		annotations.StoreMiss,
		annotations.ProjectionCreated,
		annotations.BuildBegin,
		annotations.BuildComplete,
		annotations.StoreSaved,
	}, log.take())

	// Warm: served from memory.
	again, err := db.PatternDatabase(task, pattern)
	require.NoError(t, err)
	assert.Same(t, built, again)
	assert.Equal(t, []string{annotations.RegistryHit}, log.take())

	// A fresh registry over the same store loads the table instead of rebuilding.
	fresh, err := NewDatabaseWithStore(store, opts)
	require.NoError(t, err)
	loaded, err := fresh.PatternDatabase(task, pattern)
	require.NoError(t, err)
	assert.Equal(t, []string{annotations.StoreHit}, log.take())
	assert.Equal(t, built.Distances(), loaded.Distances())

	initial := tasks.LogisticsInitial(3, 2)
	assert.Equal(t, built.LookupDistance(initial), loaded.LookupDistance(initial))
}

func TestDatabaseForget(t *testing.T) {
	db, err := NewDatabase(DefaultOptions(""))
	require.NoError(t, err)
	defer db.Close()

	task := tasks.TwoSwitches()
	_, err = db.PatternDatabase(task, pdb.Pattern{0})
	require.NoError(t, err)
	assert.Equal(t, 1, db.CacheLen())

	require.NoError(t, db.Forget(task, pdb.Pattern{0}))
	assert.Equal(t, 0, db.CacheLen())

	keys, err := db.Store().Keys()
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestDatabaseCacheEviction(t *testing.T) {
	opts := DefaultOptions("")
	opts.CacheSize = 2
	db, err := NewDatabase(opts)
	require.NoError(t, err)
	defer db.Close()

	task := tasks.Logistics(3, 2)
	for _, p := range []pdb.Pattern{{0}, {1}, {2}} {
		_, err := db.PatternDatabase(task, p)
		require.NoError(t, err)
	}
	assert.Equal(t, 2, db.CacheLen())

	// Evicted entries are still in the store.
	keys, err := db.Store().Keys()
	require.NoError(t, err)
	assert.Len(t, keys, 3)
}

func TestDatabaseInvalidPattern(t *testing.T) {
	db, err := NewDatabase(DefaultOptions(""))
	require.NoError(t, err)
	defer db.Close()

	_, err = db.PatternDatabase(tasks.TwoSwitches(), pdb.Pattern{3})
	assert.ErrorIs(t, err, pdb.ErrInvalidPattern)
}

func TestDatabaseStoredTableMismatch(t *testing.T) {
	db, err := NewDatabase(DefaultOptions(""))
	require.NoError(t, err)
	defer db.Close()

	task := tasks.TwoSwitches()
	pattern := pdb.Pattern{0, 1}
	_, err = db.Store().Save(KeyFor(task, pattern), []int{0, 1})
	require.NoError(t, err)

	_, err = db.PatternDatabase(task, pattern)
	assert.Error(t, err)
}

func TestDatabasePatternDatabases(t *testing.T) {
	log := &eventLog{}
	opts := DefaultOptions("")
	opts.Handler = log.handle
	db, err := NewDatabase(opts)
	require.NoError(t, err)
	defer db.Close()

	task := tasks.Logistics(3, 3)
	_, err = db.PatternDatabase(task, pdb.Pattern{1})
	require.NoError(t, err)
	log.take()

	patterns := []pdb.Pattern{{0}, {1}, {2, 3}}
	dbs, err := db.PatternDatabases(context.Background(), task, patterns)
	require.NoError(t, err)
	require.Len(t, dbs, 3)

	assert.Equal(t, 1, log.count(annotations.RegistryHit))
	assert.Equal(t, 2, log.count(annotations.BuildComplete))
	assert.Equal(t, 2, log.count(annotations.StoreSaved))

	for i, got := range dbs {
		want, err := heuristic.NewPatternDatabase(task, patterns[i])
		require.NoError(t, err)
		assert.Equal(t, want.Distances(), got.Distances(), "pattern %s", patterns[i])
	}
}

func TestDatabaseEventsScopedToCall(t *testing.T) {
	opts := DefaultOptions("")
	opts.Handler = func(annotations.Event) {}
	db, err := NewDatabase(opts)
	require.NoError(t, err)
	defer db.Close()

	task := tasks.TwoSwitches()
	for i := 0; i < 10; i++ {
		_, err := db.PatternDatabase(task, pdb.Pattern{0, 1})
		require.NoError(t, err)
	}

	// A later call's collector sees its own event only; nothing piles up
	// on the database between calls.
	collector := annotations.NewCollector(opts.Handler)
	_, err = db.patternDatabase(task, pdb.Pattern{0, 1}, collector)
	require.NoError(t, err)

	events := collector.Events()
	require.Len(t, events, 1)
	assert.Equal(t, annotations.RegistryHit, events[0].Name)
}
