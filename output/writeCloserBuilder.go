package output

import "io"

// WriteCloserBuilder decorates io.WriteClosers with a fixed chain of
// OutputDecorators. The first appended decorator is the innermost one,
// i.e. the last applied to written data.
type WriteCloserBuilder struct {
	decorators []OutputDecorator
}

func NewWriteCloserBuilder() *WriteCloserBuilder {
	return &WriteCloserBuilder{
		decorators: make([]OutputDecorator, 0, 2),
	}
}

// Append appends a decorator to the chain.
func (b *WriteCloserBuilder) Append(decorator OutputDecorator) *WriteCloserBuilder {
	b.decorators = append(b.decorators, decorator)
	return b
}

// SuggestedFileExtension returns the combined file extension of the
// decorator chain, e.g. ".zst.pgp" for compression and encryption.
func (b *WriteCloserBuilder) SuggestedFileExtension() string {
	wc, err := b.Build(NewNopWriteCloser(io.Discard))
	if err != nil {
		return ""
	}
	defer wc.Close()
	return suggestedFileExtension(wc)
}

// Build applies the decorator chain to the given io.WriteCloser. Closing
// the returned writer closes the whole chain including base.
func (b *WriteCloserBuilder) Build(base io.WriteCloser) (io.WriteCloser, error) {
	var err error
	wc := base
	for _, decorator := range b.decorators {
		wc, err = decorator(wc)
		if err != nil {
			return nil, err
		}
	}
	return wc, nil
}
