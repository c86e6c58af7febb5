// Package formid implements FormIdDatabase (spec.md §4.3): a read-only
// SQLite-backed lookup from (plugin, formid suffix) to a descriptive
// entry string, backed by a process-wide negative-caching lookup cache.
package formid

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/patrickmn/go-cache"
)

// tableForGame maps a game key to the fixed table name its database file
// uses (spec.md §4.3 schema: one table per game, named for the game).
var tableForGame = map[string]string{
	"fallout4":   "Fallout4",
	"fallout4vr": "Fallout4VR",
	"skyrimse":   "SkyrimSE",
	"skyrimvr":   "SkyrimVR",
}

// entry pairs a lookup outcome (value or miss) for caching, including
// negative results so repeated lookups on unknown ids don't requery.
type entry struct {
	value string
	found bool
}

// Database is a pool of read-only SQLite connections across one or more
// configured database files, plus the shared negative-caching lookup
// cache described in spec.md §4.3 and §5.
type Database struct {
	dbs   []*sql.DB
	games []string // parallel to dbs: the game key each db serves

	cache *cache.Cache
}

// Open opens the database files at paths (each keyed by its game, inferred
// from its file stem matching a key in tableForGame) as read-only
// connections. Each opened file has its own connection pool capped at
// min(maxConns, 8) (8 when maxConns <= 0); the cap applies per file, not
// across all files. Missing files are skipped, not an error —
// Exists() reports whether any configured database is actually present.
func Open(paths []string, maxConns int) (*Database, error) {
	connCap := maxConns
	if connCap > 8 || connCap <= 0 {
		connCap = 8
	}

	d := &Database{cache: cache.New(cache.NoExpiration, cache.NoExpiration)}

	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		game := gameKeyFromPath(path)
		db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?mode=ro&immutable=1", path))
		if err != nil {
			return nil, fmt.Errorf("open form id database %s: %w", path, err)
		}
		db.SetMaxOpenConns(connCap)
		d.dbs = append(d.dbs, db)
		d.games = append(d.games, game)
	}

	return d, nil
}

func gameKeyFromPath(path string) string {
	base := path
	if i := strings.LastIndexAny(base, `/\`); i >= 0 {
		base = base[i+1:]
	}
	if i := strings.LastIndex(base, "."); i >= 0 {
		base = base[:i]
	}
	return strings.ToLower(base)
}

// Exists reports whether at least one configured database file was found
// and opened.
func (d *Database) Exists() bool {
	return len(d.dbs) > 0
}

// Close releases all open connections.
func (d *Database) Close() error {
	var firstErr error
	for _, db := range d.dbs {
		if err := db.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// ClearCache empties the lookup cache. Called between batches (spec.md §4.3
// "cleared between batches").
func (d *Database) ClearCache() {
	d.cache.Flush()
}

// cacheKey builds the process-wide cache key for one lookup.
func cacheKey(formIDSuffixHex6, pluginFilename string) string {
	return strings.ToUpper(formIDSuffixHex6) + "|" + strings.ToLower(pluginFilename)
}

// Lookup resolves a FormID suffix + plugin filename to a descriptive entry
// string, trying every configured database in order until a hit. Results
// (including misses) are cached for the batch lifetime. A SQLite error on
// a single lookup is logged and treated as a miss — it does not poison the
// cache with a permanent negative result tied to the error (spec.md §4.3,
// §7 ExternalFailure).
func (d *Database) Lookup(pluginFilename, formIDSuffixHex6 string) (string, bool) {
	key := cacheKey(formIDSuffixHex6, pluginFilename)
	if cached, ok := d.cache.Get(key); ok {
		e := cached.(entry)
		return e.value, e.found
	}

	value, found, err := d.query(pluginFilename, formIDSuffixHex6)
	if err != nil {
		log.Printf("warning: form id lookup failed for plugin=%s suffix=%s: %v", pluginFilename, formIDSuffixHex6, err)
		return "", false
	}

	d.cache.Set(key, entry{value: value, found: found}, cache.NoExpiration)
	return value, found
}

func (d *Database) query(pluginFilename, formIDSuffixHex6 string) (string, bool, error) {
	formID := strings.ToUpper(formIDSuffixHex6)

	for i, db := range d.dbs {
		table, ok := tableForGame[d.games[i]]
		if !ok {
			continue
		}
		// #nosec G201 -- table name comes from a fixed internal map, never from user input.
		query := fmt.Sprintf("SELECT entry FROM %s WHERE formid = ? AND plugin = ? LIMIT 1", table)
		var value string
		err := db.QueryRow(query, formID, pluginFilename).Scan(&value)
		if err == nil {
			return value, true, nil
		}
		if err == sql.ErrNoRows {
			continue
		}
		return "", false, err
	}
	return "", false, nil
}
