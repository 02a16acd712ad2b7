package assets

import (
	"context"
	"fmt"
	"io"
	"io/fs"
)

// Fetcher opens named resources. size is -1 when unknown.
type Fetcher interface {
	Fetch(ctx context.Context, name string) (rc io.ReadCloser, size int64, err error)
}

// FSFetcher reads resources from a file system: os.DirFS for a directory
// on disk, or an embed.FS.
type FSFetcher struct {
	FS fs.FS
}

func (f FSFetcher) Fetch(ctx context.Context, name string) (io.ReadCloser, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	file, err := f.FS.Open(name)
	if err != nil {
		return nil, 0, fmt.Errorf("open %s: %w", name, err)
	}
	size := int64(-1)
	if info, err := file.Stat(); err == nil && info.Mode().IsRegular() {
		size = info.Size()
	}
	return file, size, nil
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, name string) (io.ReadCloser, int64, error)

func (f FetcherFunc) Fetch(ctx context.Context, name string) (io.ReadCloser, int64, error) {
	return f(ctx, name)
}
