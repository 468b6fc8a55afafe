// Package iocache manages a Badger key-value store for caching derived
// beta-diversity artifacts (rarefied tables, distance matrices)
// between runs. The cache lives at ~/.cache/gndiv/beta and every key
// embeds a digest of the inputs and parameters, so a stale entry can
// never be served for changed data.
package iocache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/gnames/gndiv/pkg/ecostats"
	"github.com/gnames/gnfmt"
	"github.com/gnames/gnsys"
)

// cachedTable is the GOB-friendly form of an abundance table.
type cachedTable struct {
	Samples []string
	Taxa    []string
	Counts  [][]int
}

// cachedMatrix is the GOB-friendly form of a distance matrix.
type cachedMatrix struct {
	Samples []string
	Data    [][]float64
}

// Cache manages a Badger store for derived artifacts.
type Cache struct {
	dir string
	db  *badger.DB
}

// New creates a cache manager at the specified directory, creating the
// directory if needed. Unlike an ephemeral work area the directory is
// not cleaned: entries persist so repeated runs with the same inputs
// skip rarefaction and distance computation.
func New(cacheDir string) (*Cache, error) {
	c := &Cache{dir: cacheDir}

	if err := gnsys.MakeDir(cacheDir); err != nil {
		slog.Error("Cannot create cache directory",
			"error", err, "dir", cacheDir)
		return nil, DirError(cacheDir, err)
	}
	return c, nil
}

// Open opens the Badger database for the cache.
func (c *Cache) Open() error {
	if c.db != nil {
		slog.Warn("Cache database is already open")
		return nil
	}

	options := badger.DefaultOptions(c.dir)
	options.Logger = nil // Disable badger's internal logging

	db, err := badger.Open(options)
	if err != nil {
		slog.Error("Cannot open cache database", "error", err, "dir", c.dir)
		return err
	}

	c.db = db
	slog.Debug("Cache database opened", "dir", c.dir)
	return nil
}

// Close closes the Badger database.
func (c *Cache) Close() error {
	if c.db == nil {
		return nil
	}

	err := c.db.Close()
	c.db = nil

	if err != nil {
		slog.Error("Cannot close cache database", "error", err)
		return err
	}
	return nil
}

// Clear closes the database and removes all cached entries.
func (c *Cache) Clear() error {
	if err := c.Close(); err != nil {
		return err
	}
	if err := gnsys.CleanDir(c.dir); err != nil {
		return DirError(c.dir, err)
	}
	return nil
}

// StoreTable stores a rarefied table under the given key.
func (c *Cache) StoreTable(key string, tbl *ecostats.AbundanceTable) error {
	return c.store(key, cachedTable{
		Samples: tbl.Samples,
		Taxa:    tbl.Taxa,
		Counts:  tbl.Counts,
	})
}

// GetTable retrieves a rarefied table. Returns nil without error when
// the key is absent.
func (c *Cache) GetTable(key string) (*ecostats.AbundanceTable, error) {
	var data cachedTable
	found, err := c.get(key, &data)
	if err != nil || !found {
		return nil, err
	}
	return ecostats.NewAbundanceTable(data.Samples, data.Taxa, data.Counts)
}

// StoreMatrix stores a distance matrix under the given key.
func (c *Cache) StoreMatrix(key string, dm *ecostats.DistanceMatrix) error {
	return c.store(key, cachedMatrix{Samples: dm.Samples, Data: dm.Data})
}

// GetMatrix retrieves a distance matrix. Returns nil without error
// when the key is absent.
func (c *Cache) GetMatrix(key string) (*ecostats.DistanceMatrix, error) {
	var data cachedMatrix
	found, err := c.get(key, &data)
	if err != nil || !found {
		return nil, err
	}
	res := ecostats.NewDistanceMatrix(data.Samples)
	res.Data = data.Data
	return res, nil
}

func (c *Cache) store(key string, val any) error {
	if c.db == nil {
		return NotOpenError()
	}

	enc := gnfmt.GNgob{}
	bs, err := enc.Encode(val)
	if err != nil {
		slog.Error("Cannot encode cache entry", "error", err, "key", key)
		return EncodeError(key, err)
	}

	err = c.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), bs)
	})
	if err != nil {
		slog.Error("Cannot store cache entry", "error", err, "key", key)
		return err
	}
	return nil
}

func (c *Cache) get(key string, val any) (bool, error) {
	if c.db == nil {
		return false, NotOpenError()
	}

	var bs []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err == badger.ErrKeyNotFound {
			return nil // Not an error, just not found
		}
		if err != nil {
			return err
		}
		bs, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		slog.Error("Cannot retrieve cache entry", "error", err, "key", key)
		return false, err
	}
	if bs == nil {
		return false, nil
	}

	enc := gnfmt.GNgob{}
	if err = enc.Decode(bs, val); err != nil {
		slog.Error("Cannot decode cache entry", "error", err, "key", key)
		return false, DecodeError(key, err)
	}
	return true, nil
}

// Key derives a cache key from an input file and the parameters that
// shape the derived artifact: any change in file content or settings
// produces a different key.
func Key(kind, path string, params ...any) (string, error) {
	h := sha256.New()
	fh, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = fh.Close() }()
	if _, err = io.Copy(h, fh); err != nil {
		return "", err
	}
	fmt.Fprintf(h, "|%s", kind)
	for _, p := range params {
		fmt.Fprintf(h, "|%v", p)
	}
	return kind + ":" + hex.EncodeToString(h.Sum(nil)), nil
}
