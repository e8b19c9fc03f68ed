package output

import (
	"io"

	"golang.org/x/crypto/openpgp"

	"github.com/fkie-cad/loadscan/pgp"
)

func NewPGPEncryptor(ring openpgp.EntityList, isBinary bool, output io.WriteCloser) (io.WriteCloser, error) {
	writer, err := pgp.NewPGPEncryptor(ring, isBinary, output)
	if err != nil {
		return nil, err
	}
	return &decoratedWriteCloser{
		writer: writer,
		base:   output,
		meta: map[string]interface{}{
			metaKeySuggestedFileExtension: ".pgp",
		},
	}, nil
}

func NewPGPSymmetricEncryptor(password string, isBinary bool, output io.WriteCloser) (io.WriteCloser, error) {
	writer, err := pgp.NewPGPSymmetricEncryptor(password, isBinary, output)
	if err != nil {
		return nil, err
	}
	return &decoratedWriteCloser{
		writer: writer,
		base:   output,
		meta: map[string]interface{}{
			metaKeySuggestedFileExtension: ".pgp",
		},
	}, nil
}
