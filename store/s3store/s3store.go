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

// Package s3store implements the "s3" mount kind on top of
// aws-sdk-go-v2, laid out the way the teacher's own S3-backed column
// storage opens a client and keys objects under a bucket prefix
// (storage/persistence-s3.go).
package s3store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	smithy "github.com/aws/smithy-go"

	structpath "github.com/launix-de/structfs/path"
	"github.com/launix-de/structfs/store"
	"github.com/launix-de/structfs/value"
)

// Options mirrors the teacher's S3Factory fields (storage/persistence-s3.go).
type Options struct {
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	Endpoint        string
	Bucket          string
	Prefix          string
	ForcePathStyle  bool
}

type S3 struct {
	opts Options

	mu     sync.Mutex
	client *s3.Client
	opened bool
}

func New(opts Options) *S3 {
	return &S3{opts: opts}
}

func (s *S3) ensureOpen(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.opened {
		return nil
	}

	var loadOpts []func(*config.LoadOptions) error
	if s.opts.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(s.opts.Region))
	}
	if s.opts.AccessKeyID != "" && s.opts.SecretAccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(s.opts.AccessKeyID, s.opts.SecretAccessKey, "")))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return fmt.Errorf("s3store: load aws config: %w", err)
	}

	var clientOpts []func(*s3.Options)
	if s.opts.Endpoint != "" {
		clientOpts = append(clientOpts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(s.opts.Endpoint)
		})
	}
	if s.opts.ForcePathStyle {
		clientOpts = append(clientOpts, func(o *s3.Options) {
			o.UsePathStyle = true
		})
	}

	s.client = s3.NewFromConfig(cfg, clientOpts...)
	s.opened = true
	return nil
}

func (s *S3) key(p structpath.Path) string {
	pfx := strings.TrimSuffix(s.opts.Prefix, "/")
	if pfx == "" {
		return p.String()
	}
	if p.IsRoot() {
		return pfx
	}
	return pfx + "/" + p.String()
}

func (s *S3) fmtKey(p structpath.Path) string { return s.key(p) + ".fmt" }

func (s *S3) Read(ctx context.Context, p structpath.Path) (*value.Record, error) {
	if err := s.ensureOpen(ctx); err != nil {
		return nil, &store.ReadError{Kind: store.ReadIOFailed, Path: p.String(), Reason: err.Error()}
	}

	resp, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.opts.Bucket),
		Key:    aws.String(s.key(p)),
	})
	if err != nil {
		if isNotFound(err) {
			return s.readDirectory(ctx, p)
		}
		return nil, &store.ReadError{Kind: store.ReadRemoteError, Path: p.String(), Reason: err.Error()}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &store.ReadError{Kind: store.ReadIOFailed, Path: p.String(), Reason: err.Error()}
	}

	format := s.readFormat(ctx, p)
	rec := value.NewRaw(raw, format)
	return &rec, nil
}

func (s *S3) readFormat(ctx context.Context, p structpath.Path) value.Format {
	resp, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.opts.Bucket),
		Key:    aws.String(s.fmtKey(p)),
	})
	if err != nil {
		return value.Unknown
	}
	defer resp.Body.Close()
	tag, err := io.ReadAll(resp.Body)
	if err != nil {
		return value.Unknown
	}
	return value.ParseFormat(strings.TrimSpace(string(tag)))
}

func (s *S3) readDirectory(ctx context.Context, p structpath.Path) (*value.Record, error) {
	prefix := s.key(p)
	if prefix != "" {
		prefix += "/"
	}
	resp, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:    aws.String(s.opts.Bucket),
		Prefix:    aws.String(prefix),
		Delimiter: aws.String("/"),
	})
	if err != nil {
		return nil, &store.ReadError{Kind: store.ReadRemoteError, Path: p.String(), Reason: err.Error()}
	}

	names := map[string]bool{}
	for _, cp := range resp.CommonPrefixes {
		name := strings.TrimSuffix(strings.TrimPrefix(aws.ToString(cp.Prefix), prefix), "/")
		if name != "" {
			names[name] = true
		}
	}
	for _, obj := range resp.Contents {
		name := strings.TrimPrefix(aws.ToString(obj.Key), prefix)
		if name != "" && !strings.HasSuffix(name, ".fmt") {
			names[name] = true
		}
	}
	if len(names) == 0 {
		return nil, nil
	}
	sorted := make([]string, 0, len(names))
	for n := range names {
		sorted = append(sorted, n)
	}
	sort.Strings(sorted)
	out := make([]value.Value, len(sorted))
	for i, n := range sorted {
		out[i] = value.NewString(n)
	}
	rec := value.NewParsed(value.NewSlice(out))
	return &rec, nil
}

func (s *S3) Write(ctx context.Context, p structpath.Path, rec value.Record) (structpath.Path, error) {
	if err := s.ensureOpen(ctx); err != nil {
		return structpath.Root, &store.WriteError{Kind: store.WriteIOFailed, Path: p.String(), Reason: err.Error()}
	}

	var raw []byte
	var format value.Format
	if rec.IsRaw() || rec.IsLazy() {
		raw = rec.Bytes()
		format = rec.Format()
	} else {
		v, err := rec.Value(value.NoCodec{})
		if err != nil {
			return structpath.Root, &store.WriteError{Kind: store.WriteEncodeFailed, Path: p.String(), Reason: err.Error()}
		}
		encoded, err := value.JSONCodec{}.Encode(v, value.JSON)
		if err != nil {
			return structpath.Root, &store.WriteError{Kind: store.WriteEncodeFailed, Path: p.String(), Reason: err.Error()}
		}
		raw = encoded
		format = value.JSON
	}

	if _, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.opts.Bucket),
		Key:    aws.String(s.key(p)),
		Body:   bytes.NewReader(raw),
	}); err != nil {
		return structpath.Root, &store.WriteError{Kind: store.WriteRemoteError, Path: p.String(), Reason: err.Error()}
	}
	if _, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.opts.Bucket),
		Key:    aws.String(s.fmtKey(p)),
		Body:   strings.NewReader(format.String()),
	}); err != nil {
		return structpath.Root, &store.WriteError{Kind: store.WriteRemoteError, Path: p.String(), Reason: err.Error()}
	}
	return p, nil
}

func (s *S3) Delete(ctx context.Context, p structpath.Path) error {
	if err := s.ensureOpen(ctx); err != nil {
		return &store.DeleteError{Kind: store.DeleteIOFailed, Path: p.String(), Reason: err.Error()}
	}
	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.opts.Bucket),
		Key:    aws.String(s.key(p)),
	}); err != nil {
		return &store.DeleteError{Kind: store.DeleteRemoteError, Path: p.String(), Reason: err.Error()}
	}
	s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.opts.Bucket),
		Key:    aws.String(s.fmtKey(p)),
	})
	return nil
}

func isNotFound(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode() == "NoSuchKey"
	}
	return false
}
