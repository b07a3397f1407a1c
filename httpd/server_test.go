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

package httpd

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/launix-de/structfs/path"
	"github.com/launix-de/structfs/store"
	"github.com/launix-de/structfs/value"
)

// bareStore implements Backend but deliberately not store.Describer, to
// exercise /meta's unsupported path.
type bareStore struct{}

func (bareStore) Read(ctx context.Context, p path.Path) (*value.Record, error) { return nil, nil }
func (bareStore) Write(ctx context.Context, p path.Path, rec value.Record) (path.Path, error) {
	return p, nil
}
func (bareStore) Delete(ctx context.Context, p path.Path) error { return nil }

func TestWriteThenReadThenDelete(t *testing.T) {
	s := New(store.NewMemory())
	srv := httptest.NewServer(s)
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/write?path=a/b", "application/json", strings.NewReader(`"hello"`))
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	readResp, err := http.Get(srv.URL + "/read?path=a/b")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	defer readResp.Body.Close()
	if readResp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", readResp.StatusCode)
	}

	req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/delete?path=a/b", nil)
	delResp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	delResp.Body.Close()
	if delResp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", delResp.StatusCode)
	}
}

func TestMetaReportsUnsupportedForMemoryLikeStoreWithoutDescriber(t *testing.T) {
	s := New(bareStore{})
	srv := httptest.NewServer(s)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/meta?path=a")
	if err != nil {
		t.Fatalf("meta: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestMetaDescribesWrittenPath(t *testing.T) {
	s := New(store.NewMemory())
	srv := httptest.NewServer(s)
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/write?path=a", "application/json", strings.NewReader(`"hello"`))
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	resp.Body.Close()

	metaResp, err := http.Get(srv.URL + "/meta?path=a")
	if err != nil {
		t.Fatalf("meta: %v", err)
	}
	defer metaResp.Body.Close()
	if metaResp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", metaResp.StatusCode)
	}
}

func TestReadMissingPathReturnsNullValue(t *testing.T) {
	s := New(store.NewMemory())
	srv := httptest.NewServer(s)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/read?path=nope")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}
