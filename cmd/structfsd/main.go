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

// structfsd is the daemon: it wires a store.Factory into a
// mount.Registry and exposes the result over HTTP (spec.md §6).
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/dc0d/onexit"

	"github.com/launix-de/structfs/broker"
	"github.com/launix-de/structfs/config"
	"github.com/launix-de/structfs/httpd"
	"github.com/launix-de/structfs/mount"
	"github.com/launix-de/structfs/mountspec"
	"github.com/launix-de/structfs/store"
	"github.com/launix-de/structfs/store/cephstore"
	"github.com/launix-de/structfs/store/httpstore"
	"github.com/launix-de/structfs/store/local"
	"github.com/launix-de/structfs/store/s3store"
	"github.com/launix-de/structfs/store/sqlstore"
)

func factory(cfg store.MountConfig) (store.Store, error) {
	switch cfg.Kind {
	case store.KindMemory:
		return store.NewMemory(), nil
	case store.KindLocal:
		return local.New(cfg.Path)
	case store.KindSQL:
		return sqlstore.Open(context.Background(), cfg.Driver, cfg.DSN, cfg.Table)
	case store.KindS3:
		return s3store.New(s3store.Options{
			Bucket:   cfg.Bucket,
			Prefix:   cfg.Prefix,
			Endpoint: cfg.Endpoint,
			Region:   cfg.Region,
		}), nil
	case store.KindCeph:
		return cephstore.New(cephstore.Options{Pool: cfg.Bucket, Prefix: cfg.Prefix}), nil
	case store.KindHTTP, store.KindStructfs:
		return httpstore.New(cfg.URL), nil
	case store.KindHTTPBroker:
		return broker.NewSyncBrokerWithTimeout(cfg.DefaultTimeoutMs), nil
	case store.KindAsyncHTTPBroker:
		return broker.NewAsyncBrokerWithTimeout(cfg.DefaultTimeoutMs), nil
	case store.KindHelp:
		return store.NewHelp(), nil
	case store.KindSys:
		return store.NewSys(), nil
	default:
		return nil, &store.ErrUnknownMountKind{Kind: cfg.Kind}
	}
}

func main() {
	cfg, err := config.Parse(os.Args[1:])
	if err != nil {
		log.Fatalf("structfsd: %v", err)
	}

	help := store.NewHelp()
	registry := mount.NewRegistry(factory, help)

	specs, err := config.LoadMounts(cfg.MountFile)
	if err != nil {
		log.Fatalf("structfsd: loading mounts from %q: %v", cfg.MountFile, err)
	}
	for _, spec := range specs {
		mc, err := mountspec.Parse(spec.Descriptor)
		if err != nil {
			log.Fatalf("structfsd: mount %q: %v", spec.Descriptor, err)
		}
		if _, err := registry.Mount(spec.Prefix, mc); err != nil {
			log.Fatalf("structfsd: mounting %q at %q: %v", spec.Descriptor, spec.Prefix, err)
		}
		log.Printf("mounted %s at /%s", spec.Descriptor, spec.Prefix)
	}

	onexit.Register(func() {
		for _, layer := range registry.Router().Layers() {
			registry.Unmount(layer.Prefix.String())
		}
	})

	srv := httpd.NewHTTPServer(cfg.Addr, registry)
	fmt.Printf("structfsd listening on %s\n", cfg.Addr)
	log.Fatal(srv.ListenAndServe())
}
