// Package duckdb exports canonical features into a DuckDB database. The
// table is an append-only sink for downstream analysis; querying it is the
// caller's concern.
package duckdb

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	_ "github.com/marcboeker/go-duckdb"

	"github.com/genomekit/genepred/internal/feature"
)

// Store manages a DuckDB connection holding exported features.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates a DuckDB database at the given path. Use an empty
// string for an in-memory database.
func Open(path string) (*Store, error) {
	if path != "" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create output directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for direct access.
func (s *Store) DB() *sql.DB {
	return s.db
}

// ensureSchema creates the features table if it does not exist. Block and
// extras columns hold the same textual renderings the BED writer uses.
func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS features (
		chrom VARCHAR NOT NULL,
		start_pos BIGINT NOT NULL,
		end_pos BIGINT NOT NULL,
		name VARCHAR,
		score SMALLINT,
		strand VARCHAR,
		thick_start BIGINT,
		thick_end BIGINT,
		block_count INTEGER,
		block_starts VARCHAR,
		block_ends VARCHAR,
		extras VARCHAR
	)`)
	return err
}

// InsertFeatures appends features to the table in one transaction.
func (s *Store) InsertFeatures(feats []*feature.Feature) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO features (
		chrom, start_pos, end_pos, name, score, strand,
		thick_start, thick_end, block_count, block_starts, block_ends, extras
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, f := range feats {
		var thickStart, thickEnd any
		if f.HasThick() {
			thickStart, thickEnd = int64(f.ThickStart), int64(f.ThickEnd)
		}
		var score any
		if f.HasScore {
			score = int64(f.Score)
		}
		var name any
		if f.Name != "" {
			name = f.Name
		}

		_, err := stmt.Exec(
			f.Chrom,
			int64(f.Start),
			int64(f.End),
			name,
			score,
			f.Strand.String(),
			thickStart,
			thickEnd,
			f.BlockCount(),
			joinUints(f.BlockStarts),
			joinUints(f.BlockEnds),
			renderExtras(f.Extras),
		)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("insert feature %s:%d-%d: %w", f.Chrom, f.Start, f.End, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// CountFeatures returns the number of stored features.
func (s *Store) CountFeatures() (int64, error) {
	var count int64
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM features`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count features: %w", err)
	}
	return count, nil
}

func joinUints(vs []uint64) string {
	if len(vs) == 0 {
		return ""
	}
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = strconv.FormatUint(v, 10)
	}
	return strings.Join(parts, ",")
}

// renderExtras flattens extras to "key=value" pairs joined by ';', with
// array values comma-joined, in sorted key order.
func renderExtras(extras feature.Extras) string {
	if len(extras) == 0 {
		return ""
	}
	keys := make([]string, 0, len(extras))
	for key := range extras {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, key+"="+extras[key].Render())
	}
	return strings.Join(parts, ";")
}
