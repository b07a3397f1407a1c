/*
Copyright (C) 2026  Carl-Philip Hänsch

	This program is free software: you can redistribute it and/or modify
	it under the terms of the GNU General Public License as published by
	the Free Software Foundation, either version 3 of the License, or
	(at your option) any later version.

	This program is distributed in the hope that it will be useful,
	but WITHOUT ANY WARRANTY; without even the implied warranty of
	MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
	GNU General Public License for more details.

	You should have received a copy of the GNU General Public License
	along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

// Package sqlstore implements the "sql" mount kind: a store backed by
// a single path/format/data table in MySQL or PostgreSQL, opened
// through database/sql the way the teacher opens its MySQL import
// source (storage/mysql_import.go's openMySQL).
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"

	structpath "github.com/launix-de/structfs/path"
	"github.com/launix-de/structfs/store"
	"github.com/launix-de/structfs/value"
)

// SQL stores records in one table (path VARCHAR(1024) PRIMARY KEY,
// format VARCHAR(32), data LONGBLOB or, on Postgres, BYTEA), with child
// listing derived from a LIKE prefix query.
type SQL struct {
	db      *sql.DB
	table   string
	isPostgres bool
}

// Open dials driver (expects "mysql" or "postgres") with dsn and
// ensures the backing table named table exists.
func Open(ctx context.Context, driver, dsn, table string) (*SQL, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	s := &SQL{db: db, table: table, isPostgres: driver == "postgres"}
	if err := s.ensureTable(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQL) ensureTable(ctx context.Context) error {
	ddl := fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (path VARCHAR(1024) PRIMARY KEY, format VARCHAR(32) NOT NULL, data %s NOT NULL)",
		s.table, s.blobType())
	_, err := s.db.ExecContext(ctx, ddl)
	return err
}

func (s *SQL) blobType() string {
	if s.isPostgres {
		return "BYTEA"
	}
	return "LONGBLOB"
}

func (s *SQL) placeholder(n int) string {
	if s.isPostgres {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

func (s *SQL) Close() error { return s.db.Close() }

func (s *SQL) Read(ctx context.Context, p structpath.Path) (*value.Record, error) {
	key := p.String()
	row := s.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT format, data FROM %s WHERE path = %s", s.table, s.placeholder(1)), key)

	var format string
	var data []byte
	if err := row.Scan(&format, &data); err != nil {
		if err == sql.ErrNoRows {
			return s.readDirectory(ctx, p)
		}
		return nil, &store.ReadError{Kind: store.ReadIOFailed, Path: key, Reason: err.Error()}
	}
	rec := value.NewRaw(data, value.ParseFormat(format))
	return &rec, nil
}

func (s *SQL) readDirectory(ctx context.Context, p structpath.Path) (*value.Record, error) {
	prefix := p.String()
	if prefix != "" {
		prefix += "/"
	}
	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf("SELECT path FROM %s WHERE path LIKE %s", s.table, s.placeholder(1)), prefix+"%")
	if err != nil {
		return nil, &store.ReadError{Kind: store.ReadIOFailed, Path: prefix, Reason: err.Error()}
	}
	defer rows.Close()

	seen := map[string]bool{}
	for rows.Next() {
		var full string
		if err := rows.Scan(&full); err != nil {
			continue
		}
		rest := strings.TrimPrefix(full, prefix)
		if i := strings.IndexByte(rest, '/'); i >= 0 {
			rest = rest[:i]
		}
		if rest != "" {
			seen[rest] = true
		}
	}
	if len(seen) == 0 {
		return nil, nil
	}
	out := make([]value.Value, 0, len(seen))
	for name := range seen {
		out = append(out, value.NewString(name))
	}
	rec := value.NewParsed(value.NewSlice(out))
	return &rec, nil
}

func (s *SQL) Write(ctx context.Context, p structpath.Path, rec value.Record) (structpath.Path, error) {
	key := p.String()

	var raw []byte
	var format value.Format
	if rec.IsRaw() || rec.IsLazy() {
		raw = rec.Bytes()
		format = rec.Format()
	} else {
		v, err := rec.Value(value.NoCodec{})
		if err != nil {
			return structpath.Root, &store.WriteError{Kind: store.WriteEncodeFailed, Path: key, Reason: err.Error()}
		}
		encoded, err := value.JSONCodec{}.Encode(v, value.JSON)
		if err != nil {
			return structpath.Root, &store.WriteError{Kind: store.WriteEncodeFailed, Path: key, Reason: err.Error()}
		}
		raw = encoded
		format = value.JSON
	}

	var upsert string
	if s.isPostgres {
		upsert = fmt.Sprintf(
			"INSERT INTO %s (path, format, data) VALUES ($1, $2, $3) ON CONFLICT (path) DO UPDATE SET format = $2, data = $3",
			s.table)
	} else {
		upsert = fmt.Sprintf(
			"INSERT INTO %s (path, format, data) VALUES (?, ?, ?) ON DUPLICATE KEY UPDATE format = VALUES(format), data = VALUES(data)",
			s.table)
	}
	if _, err := s.db.ExecContext(ctx, upsert, key, format.String(), raw); err != nil {
		return structpath.Root, &store.WriteError{Kind: store.WriteIOFailed, Path: key, Reason: err.Error()}
	}
	return p, nil
}

// Describe implements store.Describer (spec.md §9's "meta lens"): the
// stored format tag and row size, or the set of child path segments
// when p has no row of its own.
func (s *SQL) Describe(ctx context.Context, p structpath.Path) (store.Description, error) {
	key := p.String()
	row := s.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT format, LENGTH(data) FROM %s WHERE path = %s", s.table, s.placeholder(1)), key)

	var format string
	var size int64
	if err := row.Scan(&format, &size); err != nil {
		if err == sql.ErrNoRows {
			return s.describeDirectory(ctx, p)
		}
		return store.Description{Size: -1}, &store.ReadError{Kind: store.ReadIOFailed, Path: key, Reason: err.Error()}
	}
	return store.Description{Format: value.ParseFormat(format), Size: size}, nil
}

func (s *SQL) describeDirectory(ctx context.Context, p structpath.Path) (store.Description, error) {
	rec, err := s.readDirectory(ctx, p)
	if err != nil {
		return store.Description{Size: -1}, err
	}
	if rec == nil {
		return store.Description{Size: -1}, nil
	}
	v, _ := rec.Value(value.NoCodec{})
	slice := v.Slice()
	names := make([]string, len(slice))
	for i, item := range slice {
		names[i] = item.String()
	}
	return store.Description{IsDir: true, Size: -1, Subpaths: names}, nil
}

func (s *SQL) Delete(ctx context.Context, p structpath.Path) error {
	key := p.String()
	if _, err := s.db.ExecContext(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE path = %s OR path LIKE %s", s.table, s.placeholder(1), s.placeholder(2)),
		key, key+"/%"); err != nil {
		return &store.DeleteError{Kind: store.DeleteIOFailed, Path: key, Reason: err.Error()}
	}
	return nil
}
