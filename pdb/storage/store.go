// Package storage persists pattern database distance tables and keeps a
// registry of built databases.
package storage

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/wbrown/janus-pdb/pdb"
)

const keyPrefix = "pdb/"

// Key identifies a stored table: the task fingerprint and the pattern
type Key struct {
	Task    string
	Pattern pdb.Pattern
}

// KeyFor builds the storage key of task projected onto pattern
func KeyFor(task *pdb.Task, pattern pdb.Pattern) Key {
	return Key{Task: task.Fingerprint(), Pattern: pattern}
}

// Bytes encodes the key as pdb/<fingerprint>/<v0,v1,...>
func (k Key) Bytes() []byte {
	return []byte(keyPrefix + k.Task + "/" + k.Pattern.Key())
}

// String returns the encoded key
func (k Key) String() string {
	return string(k.Bytes())
}

// ParseKey decodes a key produced by Key.Bytes
func ParseKey(b []byte) (Key, error) {
	s := string(b)
	if !strings.HasPrefix(s, keyPrefix) {
		return Key{}, fmt.Errorf("invalid key %q: missing prefix", s)
	}
	task, pattern, ok := strings.Cut(strings.TrimPrefix(s, keyPrefix), "/")
	if !ok || task == "" || pattern == "" {
		return Key{}, fmt.Errorf("invalid key %q", s)
	}

	k := Key{Task: task}
	for _, part := range strings.Split(pattern, ",") {
		v, err := strconv.Atoi(part)
		if err != nil {
			return Key{}, fmt.Errorf("invalid key %q: %w", s, err)
		}
		k.Pattern = append(k.Pattern, v)
	}
	return k, nil
}

// Store is the interface for distance table storage
type Store interface {
	// Write operations
	Save(key Key, distances []int) (int, error) // returns stored size in bytes
	Delete(key Key) error

	// Read operations
	Load(key Key) ([]int, bool, error)
	Keys() ([]Key, error)

	// Lifecycle
	Close() error
}
