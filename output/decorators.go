package output

import (
	"io"

	"golang.org/x/crypto/openpgp"

	"github.com/targodan/go-errors"
)

type decoratedWriteCloser struct {
	writer io.WriteCloser
	base   io.Closer
	meta   map[string]interface{}
}

func (w *decoratedWriteCloser) Write(p []byte) (n int, err error) {
	return w.writer.Write(p)
}

func (w *decoratedWriteCloser) Close() error {
	err := w.writer.Close()
	if w.base == nil {
		return err
	}
	return errors.NewMultiError(err, w.base.Close())
}

func (w *decoratedWriteCloser) GetMeta(key string) interface{} {
	if w.meta == nil {
		return nil
	}
	value, ok := w.meta[key]
	if !ok {
		return nil
	}
	return value
}

func (w *decoratedWriteCloser) FindMeta(key string) []interface{} {
	return w.findMeta(key, make([]interface{}, 0))
}

func (w *decoratedWriteCloser) findMeta(key string, collected []interface{}) []interface{} {
	value := w.GetMeta(key)
	if value != nil {
		collected = append(collected, value)
	}

	underlying, ok := w.base.(*decoratedWriteCloser)
	if !ok {
		return collected
	}
	return underlying.findMeta(key, collected)
}

// OutputDecorator wraps an io.WriteCloser with an additional transformation
// such as compression or encryption.
type OutputDecorator func(io.WriteCloser) (io.WriteCloser, error)

func PGPEncryptionDecorator(ring openpgp.EntityList, isBinary bool) OutputDecorator {
	return func(out io.WriteCloser) (io.WriteCloser, error) {
		return NewPGPEncryptor(ring, isBinary, out)
	}
}

func PGPSymmetricEncryptionDecorator(password string, isBinary bool) OutputDecorator {
	return func(out io.WriteCloser) (io.WriteCloser, error) {
		return NewPGPSymmetricEncryptor(password, isBinary, out)
	}
}

func ZSTDCompressionDecorator() OutputDecorator {
	return func(out io.WriteCloser) (io.WriteCloser, error) {
		return NewZSTDCompressor(out), nil
	}
}

const metaKeySuggestedFileExtension = "SuggestedFileExtension"

func suggestedFileExtension(v interface{}) string {
	decorated, ok := v.(*decoratedWriteCloser)
	if !ok {
		return ""
	}

	ext := ""

	extensions := decorated.FindMeta(metaKeySuggestedFileExtension)
	for _, v := range extensions {
		ext += v.(string)
	}

	return ext
}
