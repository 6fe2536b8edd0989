// ABOUTME: Charm KV client that stores app preferences with cloud sync.
// ABOUTME: Implements prefs.Store so streak and reminder settings roam between devices.
package charm

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/charm/fs"
	"github.com/charmbracelet/charm/kv"
	"github.com/dgraph-io/badger/v3"

	"github.com/harperreed/circuit/internal/prefs"
)

const (
	// DefaultDBName is the charm kv database used when none is configured.
	DefaultDBName = "circuit"
	charmHost     = "charm.2389.dev"

	PrefPrefix = prefs.KeyPrefix

	// gcDiscardRatio is the value log share that must be stale before
	// Repair rewrites a file.
	gcDiscardRatio = 0.5
)

var _ prefs.Store = (*Client)(nil)

// Client wraps a charm kv database.
type Client struct {
	kv       *kv.KV
	name     string
	autoSync bool
	mu       sync.RWMutex
}

// WipeResult reports what Wipe removed.
type WipeResult struct {
	BackupsDeleted int
	KeysDeleted    int
}

// RepairResult reports what Repair did to the local database.
type RepairResult struct {
	LSMBefore, VlogBefore int64
	LSMAfter, VlogAfter   int64
	VlogRewrites          int
}

// Host returns the Charm server in use.
func Host() string {
	if h := os.Getenv("CHARM_HOST"); h != "" {
		return h
	}
	return charmHost
}

// Open opens the named charm kv database and pulls remote state.
// CHARM_HOST is set to the default host unless already present. A database
// held open by another process yields prefs.ErrReadOnly.
func Open(name string) (*Client, error) {
	if name == "" {
		name = DefaultDBName
	}
	if os.Getenv("CHARM_HOST") == "" {
		if err := os.Setenv("CHARM_HOST", charmHost); err != nil {
			return nil, err
		}
	}

	db, err := kv.OpenWithDefaults(name)
	if prefs.IsLocked(err) {
		return nil, fmt.Errorf("open charm kv %s: %w", name, prefs.ErrReadOnly)
	}
	if err != nil {
		return nil, fmt.Errorf("open charm kv %s: %w", name, err)
	}

	c := &Client{kv: db, name: name, autoSync: true}

	// Remote state is best effort on startup; offline use keeps working.
	_ = db.Sync()
	return c, nil
}

// Name returns the kv database name.
func (c *Client) Name() string {
	return c.name
}

// Close closes the KV database connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.kv != nil {
		return c.kv.Close()
	}
	return nil
}

// Sync synchronizes local state with Charm Cloud.
func (c *Client) Sync() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.kv.Sync()
}

func (c *Client) syncIfEnabled() {
	if c.autoSync {
		_ = c.kv.Sync()
	}
}

// SetAutoSync enables or disables automatic sync after writes.
func (c *Client) SetAutoSync(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.autoSync = enabled
}

// ID returns the Charm user ID for the linked account.
func (c *Client) ID() (string, error) {
	return c.kv.Client().ID()
}

// Reset wipes local data and rebuilds from Charm Cloud.
func (c *Client) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.kv.Reset()
}

// Wipe deletes every cloud backup of this database and then rebuilds the
// local copy, which leaves both sides empty.
func (c *Client) Wipe() (WipeResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var res WipeResult
	keys, err := c.kv.Keys()
	if err != nil {
		return res, fmt.Errorf("list keys: %w", err)
	}
	res.KeysDeleted = len(filterPrefKeys(keys))

	cfs, err := fs.NewFSWithClient(c.kv.Client())
	if err != nil {
		return res, fmt.Errorf("open charm fs: %w", err)
	}
	entries, err := cfs.ReadDir(c.name)
	if err != nil {
		return res, fmt.Errorf("list backups: %w", err)
	}
	for _, entry := range entries {
		if err := cfs.Remove(path.Join(c.name, entry.Name())); err != nil {
			return res, fmt.Errorf("delete backup %s: %w", entry.Name(), err)
		}
		res.BackupsDeleted++
	}

	if err := c.kv.Reset(); err != nil {
		return res, fmt.Errorf("reset local copy: %w", err)
	}
	return res, nil
}

// Repair verifies block checksums, compacts the LSM tree, and rewrites
// value log files until badger reports nothing left to reclaim.
func (c *Client) Repair() (RepairResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	db := c.kv.DB
	var res RepairResult
	res.LSMBefore, res.VlogBefore = db.Size()

	if err := db.VerifyChecksum(); err != nil {
		return res, fmt.Errorf("verify checksums: %w", err)
	}
	if err := db.Flatten(1); err != nil {
		return res, fmt.Errorf("compact: %w", err)
	}
	for {
		err := db.RunValueLogGC(gcDiscardRatio)
		if errors.Is(err, badger.ErrNoRewrite) || errors.Is(err, badger.ErrRejected) {
			break
		}
		if err != nil {
			return res, fmt.Errorf("value log gc: %w", err)
		}
		res.VlogRewrites++
	}

	res.LSMAfter, res.VlogAfter = db.Size()
	return res, nil
}

// Get returns the preference stored under key.
func (c *Client) Get(key string) (string, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	val, err := c.kv.Get([]byte(prefKey(key)))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return string(val), true, nil
}

// Set stores a preference and syncs when auto sync is on.
func (c *Client) Set(key, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.kv.Set([]byte(prefKey(key)), []byte(value)); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	c.syncIfEnabled()
	return nil
}

// Delete removes a preference.
func (c *Client) Delete(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.kv.Delete([]byte(prefKey(key))); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	c.syncIfEnabled()
	return nil
}

// Keys lists the stored preference names, sorted.
func (c *Client) Keys() ([]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys, err := c.kv.Keys()
	if err != nil {
		return nil, err
	}
	return filterPrefKeys(keys), nil
}

func filterPrefKeys(keys [][]byte) []string {
	prefix := []byte(PrefPrefix)
	names := []string{}
	for _, key := range keys {
		if bytes.HasPrefix(key, prefix) {
			names = append(names, extractID(string(key), PrefPrefix))
		}
	}
	sort.Strings(names)
	return names
}

func prefKey(key string) string {
	return PrefPrefix + key
}

// extractID extracts the name portion from a prefixed key.
func extractID(key, prefix string) string {
	return strings.TrimPrefix(key, prefix)
}
