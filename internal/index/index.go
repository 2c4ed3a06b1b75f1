// Package index keeps a SQLite outline of the workspace's source files for
// workspace symbol search. It stores names and locations only.
package index

import (
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"sansls/internal/document"
	"sansls/internal/features"

	"github.com/lithammer/fuzzysearch/fuzzy"
	_ "github.com/mattn/go-sqlite3"
)

var ErrNotFound = errors.New("record not found")

type Kind int

const (
	KindFunction Kind = iota + 1
	KindVariable
)

func (k Kind) String() string {
	switch k {
	case KindFunction:
		return "function"
	case KindVariable:
		return "variable"
	}
	return "unknown"
}

// Symbol is one outline entry of a file.
type Symbol struct {
	Path   string
	Name   string
	Kind   Kind
	Line   int
	Column int
	Detail string
}

// Extract lists the functions and global variables of doc, the same set
// the document outline shows.
func Extract(path string, doc *document.Document) []Symbol {
	var symbols []Symbol
	for _, fn := range doc.SortedFunctions() {
		symbols = append(symbols, Symbol{
			Path:   path,
			Name:   fn.Name,
			Kind:   KindFunction,
			Line:   fn.Line,
			Column: fn.Column,
			Detail: features.FunctionDetail(fn),
		})
	}
	for _, v := range doc.SortedVariables() {
		if !v.Scope.IsGlobal() {
			continue
		}
		symbols = append(symbols, Symbol{
			Path:   path,
			Name:   v.Name,
			Kind:   KindVariable,
			Line:   v.Line,
			Column: v.Column,
		})
	}
	return symbols
}

type Index struct {
	db *sql.DB
}

// Open opens (or creates) the index at path with WAL enabled.
func Open(path string) (*Index, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open index: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}
	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Index{db: db}, nil
}

func (ix *Index) Close() error {
	return ix.db.Close()
}

func (ix *Index) withTx(fn func(tx *sql.Tx) error) error {
	tx, err := ix.db.Begin()
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// Replace stores symbols as the complete outline of path.
func (ix *Index) Replace(path string, symbols []Symbol, indexedAt time.Time) error {
	err := ix.withTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec(`
            INSERT INTO files (path, indexed_at) VALUES (?, ?)
            ON CONFLICT(path) DO UPDATE SET indexed_at = excluded.indexed_at
        `, path, indexedAt.UnixNano()); err != nil {
			return err
		}
		if _, err := tx.Exec(`DELETE FROM symbols WHERE path = ?`, path); err != nil {
			return err
		}
		for _, s := range symbols {
			if _, err := tx.Exec(`
                INSERT INTO symbols (path, name, kind, line, col, detail)
                VALUES (?, ?, ?, ?, ?, ?)
            `, path, s.Name, int(s.Kind), s.Line, s.Column, s.Detail); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to index %s: %w", path, err)
	}
	return nil
}

// Remove drops path and its symbols.
func (ix *Index) Remove(path string) error {
	return ix.withTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM symbols WHERE path = ?`, path); err != nil {
			return err
		}
		_, err := tx.Exec(`DELETE FROM files WHERE path = ?`, path)
		return err
	})
}

// IndexedAt returns when path was last indexed.
func (ix *Index) IndexedAt(path string) (time.Time, error) {
	var ns int64
	err := ix.db.QueryRow(`SELECT indexed_at FROM files WHERE path = ?`, path).Scan(&ns)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, fmt.Errorf("%s: %w", path, ErrNotFound)
	}
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(0, ns), nil
}

// Paths lists the indexed files, sorted.
func (ix *Index) Paths() ([]string, error) {
	rows, err := ix.db.Query(`SELECT path FROM files ORDER BY path`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, rows.Err()
}

// Symbols returns the stored outline of path in source order.
func (ix *Index) Symbols(path string) ([]Symbol, error) {
	return ix.query(`
        SELECT path, name, kind, line, col, detail FROM symbols
        WHERE path = ? ORDER BY line, col
    `, path)
}

func (ix *Index) query(q string, args ...any) ([]Symbol, error) {
	rows, err := ix.db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var symbols []Symbol
	for rows.Next() {
		var s Symbol
		var kind int
		if err := rows.Scan(&s.Path, &s.Name, &kind, &s.Line, &s.Column, &s.Detail); err != nil {
			return nil, err
		}
		s.Kind = Kind(kind)
		symbols = append(symbols, s)
	}
	return symbols, rows.Err()
}

// Search returns up to limit symbols whose names fuzzily match query, best
// match first. An empty query lists symbols by name.
func (ix *Index) Search(query string, limit int) ([]Symbol, error) {
	all, err := ix.query(`
        SELECT path, name, kind, line, col, detail FROM symbols
        ORDER BY name, path, line
    `)
	if err != nil {
		return nil, fmt.Errorf("failed to search index: %w", err)
	}

	if query == "" {
		if limit > 0 && len(all) > limit {
			all = all[:limit]
		}
		return all, nil
	}

	names := make([]string, len(all))
	for i, s := range all {
		names[i] = s.Name
	}
	ranks := fuzzy.RankFindFold(query, names)
	sort.Stable(ranks)

	var hits []Symbol
	for _, r := range ranks {
		if limit > 0 && len(hits) >= limit {
			break
		}
		hits = append(hits, all[r.OriginalIndex])
	}
	return hits, nil
}
