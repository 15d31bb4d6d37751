package media

import (
	"context"
	"time"
)

// Storage keeps uploaded binaries. Paths are the public paths handed back to
// clients (e.g. /uploads/post<id>_<ts>.png).
type Storage interface {
	Store(ctx context.Context, filename string, data []byte) (path string, err error)
	// Delete removes the file behind path. A missing file is not an error.
	Delete(ctx context.Context, path string) error
}

// Object is one stored file as seen by Lister.
type Object struct {
	Path    string
	ModTime time.Time
}

// Lister is implemented by stores that can enumerate their files.
type Lister interface {
	List(ctx context.Context) ([]Object, error)
}
