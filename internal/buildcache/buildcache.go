// Copyright 2025 The zb Authors
// SPDX-License-Identifier: MIT

// Package buildcache stores translation outputs in a SQLite database
// so that translating an unchanged module is a single lookup.
package buildcache

import (
	"context"
	"crypto/sha256"
	"embed"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"gjavac.256lights.llc/pkg/internal/translate"
	"zombiezen.com/go/log"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitemigration"
	"zombiezen.com/go/sqlite/sqlitex"
)

// formatVersion is mixed into every key.
// Bump it whenever the translator's output changes for the same input.
const formatVersion = "gjavac-uvm-1"

// ErrNotFound is returned by [*Cache.Get] when the cache has no entry for a key.
var ErrNotFound = errors.New("not in build cache")

// Key identifies a translation: the input bytes
// and the options that affect the output.
type Key [sha256.Size]byte

// NewKey returns the key for translating input with opts.
// A nil opts is the same as the zero options.
func NewKey(input []byte, opts *translate.Options) Key {
	if opts == nil {
		opts = new(translate.Options)
	}
	h := sha256.New()
	io.WriteString(h, formatVersion)
	// Parallelism does not change the output.
	for _, b := range []bool{opts.LineComments, opts.Reduce} {
		io.WriteString(h, "\x00"+strconv.FormatBool(b))
	}
	io.WriteString(h, "\x00"+strconv.Itoa(len(input))+"\x00")
	h.Write(input)
	var k Key
	h.Sum(k[:0])
	return k
}

// String returns the key in hex.
func (k Key) String() string {
	return hex.EncodeToString(k[:])
}

// Entry is a cached translation.
type Entry struct {
	// Assembly is the serialized function tree.
	Assembly string
	// Metadata is the contract metadata JSON.
	Metadata string
}

// Cache is a handle to a build cache database.
// It is safe to use from multiple goroutines.
type Cache struct {
	pool *sqlitemigration.Pool
	now  func() time.Time
}

// Open opens the cache database at path,
// creating it and its parent directories if needed.
func Open(path string) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o777); err != nil {
		return nil, fmt.Errorf("open build cache: %v", err)
	}
	schema, err := loadSchema()
	if err != nil {
		return nil, fmt.Errorf("open build cache: %v", err)
	}
	c := &Cache{
		pool: sqlitemigration.NewPool(path, schema, sqlitemigration.Options{
			Flags:       sqlite.OpenCreate | sqlite.OpenReadWrite,
			PoolSize:    1,
			PrepareConn: prepareConn,
			OnStartMigrate: func() {
				log.Debugf(context.Background(), "Migrating build cache %s...", path)
			},
			OnError: func(err error) {
				log.Errorf(context.Background(), "Build cache migration: %v", err)
			},
		}),
		now: time.Now,
	}
	return c, nil
}

// Close releases the database connections.
func (c *Cache) Close() error {
	return c.pool.Close()
}

// Get returns the entry stored for key.
// If there is none, Get returns an error that wraps [ErrNotFound].
func (c *Cache) Get(ctx context.Context, key Key) (_ *Entry, err error) {
	conn, err := c.pool.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("read build cache: %w", err)
	}
	defer c.pool.Put(conn)
	defer sqlitex.Save(conn)(&err)

	var ent *Entry
	err = sqlitex.ExecuteTransientFS(conn, sqlFiles(), "find.sql", &sqlitex.ExecOptions{
		Named: map[string]any{
			":key": key.String(),
		},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			ent = &Entry{
				Assembly: stmt.GetText("assembly"),
				Metadata: stmt.GetText("metadata"),
			}
			return nil
		},
	})
	if err != nil {
		return nil, fmt.Errorf("read build cache: %v", err)
	}
	if ent == nil {
		return nil, fmt.Errorf("%v: %w", key, ErrNotFound)
	}
	err = sqlitex.ExecuteTransientFS(conn, sqlFiles(), "touch.sql", &sqlitex.ExecOptions{
		Named: map[string]any{
			":key": key.String(),
			":now": c.now().UnixMilli(),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("read build cache: %v", err)
	}
	log.Debugf(ctx, "Build cache hit for %v", key)
	return ent, nil
}

// Put stores ent under key, replacing any previous entry.
func (c *Cache) Put(ctx context.Context, key Key, ent *Entry) error {
	conn, err := c.pool.Get(ctx)
	if err != nil {
		return fmt.Errorf("write build cache: %w", err)
	}
	defer c.pool.Put(conn)

	err = sqlitex.ExecuteTransientFS(conn, sqlFiles(), "insert.sql", &sqlitex.ExecOptions{
		Named: map[string]any{
			":key":      key.String(),
			":assembly": ent.Assembly,
			":metadata": ent.Metadata,
			":now":      c.now().UnixMilli(),
		},
	})
	if err != nil {
		return fmt.Errorf("write build cache: %v", err)
	}
	return nil
}

// Prune deletes the entries that have not been used since cutoff
// and returns how many it deleted.
func (c *Cache) Prune(ctx context.Context, cutoff time.Time) (int, error) {
	conn, err := c.pool.Get(ctx)
	if err != nil {
		return 0, fmt.Errorf("prune build cache: %w", err)
	}
	defer c.pool.Put(conn)

	err = sqlitex.ExecuteTransientFS(conn, sqlFiles(), "prune.sql", &sqlitex.ExecOptions{
		Named: map[string]any{
			":cutoff": cutoff.UnixMilli(),
		},
	})
	if err != nil {
		return 0, fmt.Errorf("prune build cache: %v", err)
	}
	n := conn.Changes()
	log.Debugf(ctx, "Pruned %d build cache entries unused since %v", n, cutoff)
	return n, nil
}

func prepareConn(conn *sqlite.Conn) error {
	if err := sqlitex.ExecuteTransient(conn, "PRAGMA journal_mode=wal;", nil); err != nil {
		return fmt.Errorf("enable write-ahead logging: %v", err)
	}
	return nil
}

//go:embed sql/*.sql
//go:embed sql/schema/*.sql
var rawSQLFiles embed.FS

func sqlFiles() fs.FS {
	sub, err := fs.Sub(rawSQLFiles, "sql")
	if err != nil {
		panic(err)
	}
	return sub
}

var schemaState struct {
	init   sync.Once
	schema sqlitemigration.Schema
	err    error
}

func loadSchema() (sqlitemigration.Schema, error) {
	schemaState.init.Do(func() {
		for i := 1; ; i++ {
			migration, err := fs.ReadFile(sqlFiles(), fmt.Sprintf("schema/%02d.sql", i))
			if errors.Is(err, fs.ErrNotExist) {
				break
			}
			if err != nil {
				schemaState.err = err
				return
			}
			schemaState.schema.Migrations = append(schemaState.schema.Migrations, string(migration))
		}
	})
	return schemaState.schema, schemaState.err
}
