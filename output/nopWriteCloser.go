package output

import "io"

type nopWriteCloser struct {
	w io.Writer
}

// NewNopWriteCloser wraps the given io.Writer with a no-op Close.
func NewNopWriteCloser(w io.Writer) io.WriteCloser {
	return &nopWriteCloser{w}
}

func (w *nopWriteCloser) Write(p []byte) (n int, err error) {
	return w.w.Write(p)
}

func (w *nopWriteCloser) Close() error {
	return nil
}
