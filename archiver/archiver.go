package archiver

import (
	"archive/tar"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/yeka/zip"

	"github.com/targodan/go-errors"
)

const (
	tarDirMode  = 0777
	tarFileMode = 0666
)

// Archiver stores named report files in some backing medium. Unless
// documented otherwise, only one Created writer may be open at a time.
type Archiver interface {
	Create(name string) (io.WriteCloser, error)
	io.Closer
}

type fileArchiver struct {
	outPath string
}

// NewFileArchiver creates an Archiver which stores each entry as a plain
// file below the given directory. Multiple Created writers may be open
// concurrently.
func NewFileArchiver(outPath string) (Archiver, error) {
	err := os.MkdirAll(outPath, 0750)
	if err != nil && !os.IsExist(err) {
		return nil, err
	}
	return &fileArchiver{
		outPath: outPath,
	}, nil
}

func (f *fileArchiver) Create(name string) (io.WriteCloser, error) {
	path := filepath.Join(f.outPath, filepath.FromSlash(name))

	err := os.MkdirAll(filepath.Dir(path), 0750)
	if err != nil && !os.IsExist(err) {
		return nil, err
	}

	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0640)
}

func (f *fileArchiver) Close() error {
	return nil
}

type zipArchiver struct {
	zipWriter         *zip.Writer
	compressionMethod uint16
	password          string
	hasOpenWriter     bool
}

func NewZipArchiver(out io.Writer, compressionMethod uint16) Archiver {
	return &zipArchiver{
		zipWriter:         zip.NewWriter(out),
		compressionMethod: compressionMethod,
	}
}

// NewEncryptedZipArchiver creates a zip Archiver with AES256 encrypted
// entries.
func NewEncryptedZipArchiver(out io.Writer, compressionMethod uint16, password string) Archiver {
	return &zipArchiver{
		zipWriter:         zip.NewWriter(out),
		compressionMethod: compressionMethod,
		password:          password,
	}
}

func (z *zipArchiver) Create(name string) (io.WriteCloser, error) {
	if z.hasOpenWriter {
		return nil, errors.New("cannot create a new entry in archive before last writer was closed")
	}

	var w io.Writer
	var err error
	if z.password != "" {
		w, err = z.zipWriter.Encrypt(filepath.ToSlash(name), z.password, zip.AES256Encryption)
	} else {
		w, err = z.zipWriter.CreateHeader(&zip.FileHeader{
			Name:   filepath.ToSlash(name),
			Method: z.compressionMethod,
		})
	}
	if err != nil {
		return nil, err
	}

	z.hasOpenWriter = true

	return &callbackWriteCloser{
		writer: w,
		close: func() error {
			z.hasOpenWriter = false
			return nil
		},
	}, nil
}

func (z *zipArchiver) Close() error {
	if z.hasOpenWriter {
		return errors.New("cannot close archiver before all Created writers have been closed")
	}

	return z.zipWriter.Close()
}

type tarArchiver struct {
	mux         sync.Mutex
	tarWriter   *tar.Writer
	outCloser   io.Closer
	openWriters int

	createdDirectories map[string]bool
}

// NewTarArchiver creates an Archiver writing a tar archive. Entries are
// buffered in memory and written out when their writer is closed, so
// multiple Created writers may be open concurrently.
func NewTarArchiver(out io.WriteCloser) Archiver {
	return &tarArchiver{
		tarWriter: tar.NewWriter(out),
		outCloser: out,

		createdDirectories: make(map[string]bool),
	}
}

func (t *tarArchiver) directoryWasCreated(path string) bool {
	_, ok := t.createdDirectories[path]
	return ok
}

func (t *tarArchiver) ensureDirectoryExists(path string) error {
	if path == "" || t.directoryWasCreated(path) {
		return nil
	}

	paths := strings.Split(path, "/")
	// Last element is filename, don't create that
	if len(paths) == 1 {
		return nil
	}
	paths = paths[0 : len(paths)-1]
	return t.ensureDirectoryExistsRecursive(paths[0], paths[1:])
}

func (t *tarArchiver) ensureDirectoryExistsRecursive(path string, subPaths []string) error {
	if !t.directoryWasCreated(path) {
		err := t.createDirectory(path)
		if err != nil {
			return err
		}
	}
	if len(subPaths) == 0 {
		return nil
	}
	return t.ensureDirectoryExistsRecursive(path+"/"+subPaths[0], subPaths[1:])
}

func (t *tarArchiver) createDirectory(path string) error {
	err := t.tarWriter.WriteHeader(&tar.Header{
		Typeflag: tar.TypeDir,
		Name:     path,
		Mode:     tarDirMode,
	})
	if err == nil {
		t.createdDirectories[path] = true
	}
	return err
}

func (t *tarArchiver) Create(name string) (io.WriteCloser, error) {
	t.mux.Lock()
	defer t.mux.Unlock()

	name = filepath.ToSlash(name)

	err := t.ensureDirectoryExists(name)
	if err != nil {
		return nil, err
	}

	// Tar headers need the final size up front, hence the buffering.
	buffer := &bytes.Buffer{}
	t.openWriters++

	return &callbackWriteCloser{
		writer: buffer,
		close: func() error {
			t.mux.Lock()
			defer t.mux.Unlock()

			t.openWriters--
			err := t.tarWriter.WriteHeader(&tar.Header{
				Typeflag: tar.TypeReg,
				Name:     name,
				Size:     int64(buffer.Len()),
				Mode:     tarFileMode,
			})
			if err != nil {
				return err
			}
			_, err = io.Copy(t.tarWriter, buffer)
			return err
		},
	}, nil
}

func (t *tarArchiver) Close() error {
	t.mux.Lock()
	defer t.mux.Unlock()

	if t.openWriters > 0 {
		return errors.New("cannot close archiver before all Created writers have been closed")
	}
	err1 := t.tarWriter.Close()
	err2 := t.outCloser.Close()
	return errors.NewMultiError(err1, err2)
}
