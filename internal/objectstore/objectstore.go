// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package objectstore keeps uploaded trainer images in a bucket directory
// on local disk and maps object keys to public URLs under the uploads
// prefix served by the web server.
package objectstore

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gymflex/gymflex-go/internal/util"
)

// Disk stores objects below Root/Bucket.
type Disk struct {
	root    string
	bucket  string
	baseURL string
}

// NewDisk returns a store for bucket under root. baseURL is the public
// prefix root is served at, e.g. "/uploads".
func NewDisk(root, bucket, baseURL string) *Disk {
	return &Disk{
		root:    root,
		bucket:  bucket,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (d *Disk) bucketDir() string { return filepath.Join(d.root, d.bucket) }

// Upload writes r to key. The content is staged in a temp file and renamed
// into place so readers never see a partial object.
func (d *Disk) Upload(ctx context.Context, key string, r io.Reader, _ string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	target, err := util.SafeJoin(d.bucketDir(), key)
	if err != nil {
		return fmt.Errorf("object key %q: %w", key, err)
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("creating bucket dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), ".upload-"+uuid.NewString()+"-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := io.Copy(tmp, &ctxReader{ctx: ctx, r: r}); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing object: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing object: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod object: %w", err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		return fmt.Errorf("publishing object: %w", err)
	}
	return nil
}

// PublicURL returns the URL the object at key is served from.
func (d *Disk) PublicURL(key string) string {
	segments := strings.Split(path.Join(d.bucket, key), "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return d.baseURL + "/" + strings.Join(segments, "/")
}

// Key builds the object key for an upload made at t:
// "public/<unix-millis>-<safe filename>".
func Key(t time.Time, filename string) string {
	return fmt.Sprintf("public/%d-%s", t.UnixMilli(), util.SafeObjectName(filename))
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
