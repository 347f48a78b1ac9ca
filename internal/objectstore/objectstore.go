package objectstore

import (
	"context"
	"errors"
	"io"
)

// ErrObjectNotFound is returned by Stat for keys with no stored bytes.
var ErrObjectNotFound = errors.New("objectstore: object not found")

// Store is the remote object store boundary: it accepts bytes under a
// path-like key and yields a publicly fetchable URL for them. The
// catalog only ever holds the URL, never the bytes.
type Store interface {
	// Put transfers size bytes from r to the object under key,
	// replacing any previous object there.
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error

	// Stat reports whether the object under key still exists,
	// returning ErrObjectNotFound when it does not.
	Stat(ctx context.Context, key string) error

	// URL returns the public URL for the object under key.
	URL(key string) string

	// KeyFromURL maps a public URL back to its object key, returning
	// false for URLs this store did not produce.
	KeyFromURL(url string) (string, bool)
}
