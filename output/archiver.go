package output

import "io"

// Archiver is the destination of report files. Implementations decide
// whether entries end up in a directory, an archive or a remote collection
// server.
type Archiver interface {
	// Create creates a new named entry. Depending on the implementation,
	// multiple entries may be open for writing at the same time.
	Create(name string) (io.WriteCloser, error)
	io.Closer
}
