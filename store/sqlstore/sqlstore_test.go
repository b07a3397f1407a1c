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

package sqlstore

import (
	"context"
	"os"
	"testing"

	"github.com/launix-de/structfs/path"
)

func TestPlaceholderAndBlobTypeByDriver(t *testing.T) {
	mysql := &SQL{table: "records", isPostgres: false}
	if mysql.placeholder(1) != "?" {
		t.Fatalf("expected mysql placeholder ?, got %q", mysql.placeholder(1))
	}
	if mysql.blobType() != "LONGBLOB" {
		t.Fatalf("unexpected mysql blob type %q", mysql.blobType())
	}

	pg := &SQL{table: "records", isPostgres: true}
	if pg.placeholder(2) != "$2" {
		t.Fatalf("expected postgres placeholder $2, got %q", pg.placeholder(2))
	}
	if pg.blobType() != "BYTEA" {
		t.Fatalf("unexpected postgres blob type %q", pg.blobType())
	}
}

// TestOpenAgainstLiveDatabase opens the store against a real server and
// describes an absent row; it only runs when STRUCTFS_SQL_TEST_DSN and
// STRUCTFS_SQL_TEST_DRIVER are set, since no database is available in
// this environment by default.
func TestOpenAgainstLiveDatabase(t *testing.T) {
	dsn := os.Getenv("STRUCTFS_SQL_TEST_DSN")
	driver := os.Getenv("STRUCTFS_SQL_TEST_DRIVER")
	if dsn == "" || driver == "" {
		t.Skip("STRUCTFS_SQL_TEST_DSN/STRUCTFS_SQL_TEST_DRIVER not set")
	}
	ctx := context.Background()
	s, err := Open(ctx, driver, dsn, "structfs_records_test")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	desc, err := s.Describe(ctx, path.MustParse("structfs_records_test_probe"))
	if err != nil {
		t.Fatalf("describe missing: %v", err)
	}
	if desc.Size != -1 {
		t.Fatalf("expected Size -1 for an absent row, got %d", desc.Size)
	}
}
