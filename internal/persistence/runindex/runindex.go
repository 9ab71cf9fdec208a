// Package runindex keeps a queryable SQLite record of runs: their
// parameters and periodic state digests, so two runs can be compared
// without replaying the full logs.
package runindex

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite"

	"gridtown.sim/internal/sim/world"
)

type RunMeta struct {
	RunID       string
	Seed        int64
	MapKind     string
	LightPolicy string
	TickRateHz  int
	Vehicles    int
}

type Index struct {
	db    *sql.DB
	runID string

	// DigestEvery thins tick entries; only every Nth digest is kept.
	digestEvery uint64

	ch     chan world.TickLogEntry
	wg     sync.WaitGroup
	once   sync.Once
	closed atomic.Bool
}

func Open(path string, meta RunMeta, digestEvery uint64) (*Index, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	if _, err := db.Exec(
		`INSERT OR REPLACE INTO runs(run_id,seed,map_kind,light_policy,tick_rate_hz,vehicles,started_at) VALUES(?,?,?,?,?,?,?)`,
		meta.RunID, meta.Seed, meta.MapKind, meta.LightPolicy, meta.TickRateHz, meta.Vehicles,
		time.Now().UTC().Format(time.RFC3339Nano),
	); err != nil {
		_ = db.Close()
		return nil, err
	}

	if digestEvery < 1 {
		digestEvery = 1
	}
	idx := &Index{
		db:          db,
		runID:       meta.RunID,
		digestEvery: digestEvery,
		ch:          make(chan world.TickLogEntry, 4096),
	}
	idx.wg.Add(1)
	go func() {
		defer idx.wg.Done()
		idx.loop()
	}()
	return idx, nil
}

func initPragmas(db *sql.DB) error {
	// WAL suits the append-only write pattern.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			run_id TEXT PRIMARY KEY,
			seed INTEGER NOT NULL,
			map_kind TEXT NOT NULL,
			light_policy TEXT NOT NULL,
			tick_rate_hz INTEGER NOT NULL,
			vehicles INTEGER NOT NULL,
			started_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS tick_digests (
			run_id TEXT NOT NULL,
			tick INTEGER NOT NULL,
			time REAL NOT NULL,
			digest TEXT NOT NULL,
			PRIMARY KEY (run_id, tick)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_digests_digest ON tick_digests(digest);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

// WriteTick enqueues an entry for the writer goroutine. Entries are dropped
// rather than stalling the simulation when the indexer falls behind; the
// replay log remains the source of truth.
func (idx *Index) WriteTick(entry world.TickLogEntry) error {
	if idx == nil || idx.closed.Load() {
		return nil
	}
	if entry.Tick%idx.digestEvery != 0 {
		return nil
	}
	select {
	case idx.ch <- entry:
	default:
	}
	return nil
}

func (idx *Index) Close() error {
	var err error
	idx.once.Do(func() {
		idx.closed.Store(true)
		close(idx.ch)
		idx.wg.Wait()
		err = idx.db.Close()
	})
	return err
}

func (idx *Index) loop() {
	ctx := context.Background()
	insert, err := idx.db.Prepare(`INSERT OR REPLACE INTO tick_digests(run_id,tick,time,digest) VALUES(?,?,?,?)`)
	if err != nil {
		return
	}
	defer insert.Close()

	var (
		tx         *sql.Tx
		opCount    int
		lastCommit = time.Now()
	)
	const (
		commitEvery   = 256
		commitMaxWait = 2 * time.Second
	)

	commit := func() {
		if tx == nil {
			return
		}
		_ = tx.Commit()
		tx = nil
		opCount = 0
		lastCommit = time.Now()
	}

	flush := time.NewTicker(500 * time.Millisecond)
	defer flush.Stop()
	defer commit()

	for {
		select {
		case e, ok := <-idx.ch:
			if !ok {
				return
			}
			if tx == nil {
				txx, err := idx.db.BeginTx(ctx, nil)
				if err != nil {
					time.Sleep(50 * time.Millisecond)
					continue
				}
				tx = txx
			}
			_, _ = tx.Stmt(insert).Exec(idx.runID, e.Tick, e.Time, e.Digest)
			opCount++
			if opCount >= commitEvery {
				commit()
			}
		case <-flush.C:
			if tx != nil && time.Since(lastCommit) >= commitMaxWait {
				commit()
			}
		}
	}
}

// DigestAt reads back a recorded digest, for verification tooling.
func (idx *Index) DigestAt(tick uint64) (string, error) {
	var d string
	err := idx.db.QueryRow(
		`SELECT digest FROM tick_digests WHERE run_id = ? AND tick = ?`, idx.runID, tick,
	).Scan(&d)
	return d, err
}
