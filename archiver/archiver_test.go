package archiver

import (
	"archive/tar"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/yeka/zip"
)

type bufferCloser struct {
	bytes.Buffer
}

func (b *bufferCloser) Close() error {
	return nil
}

func readTar(t *testing.T, data []byte) map[string]string {
	t.Helper()

	entries := make(map[string]string)
	rdr := tar.NewReader(bytes.NewReader(data))
	for {
		hdr, err := rdr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		content, err := io.ReadAll(rdr)
		if err != nil {
			t.Fatal(err)
		}
		entries[hdr.Name] = string(content)
	}
	return entries
}

func TestTarArchiver(t *testing.T) {
	Convey("A tar archiver", t, func() {
		buf := &bufferCloser{}
		arch := NewTarArchiver(buf)

		Convey("should store entries with their directories.", func() {
			file, err := arch.Create("somehost/stats.json")
			So(err, ShouldBeNil)
			_, err = file.Write([]byte("{}"))
			So(err, ShouldBeNil)
			So(file.Close(), ShouldBeNil)

			file, err = arch.Create("somehost/thread-loads.json")
			So(err, ShouldBeNil)
			_, err = file.Write([]byte("{\"tid\":1}\n"))
			So(err, ShouldBeNil)
			So(file.Close(), ShouldBeNil)

			So(arch.Close(), ShouldBeNil)

			entries := readTar(t, buf.Bytes())
			So(entries["somehost/stats.json"], ShouldEqual, "{}")
			So(entries["somehost/thread-loads.json"], ShouldEqual, "{\"tid\":1}\n")
		})

		Convey("should allow concurrently open writers.", func() {
			a, err := arch.Create("a.json")
			So(err, ShouldBeNil)
			b, err := arch.Create("b.json")
			So(err, ShouldBeNil)

			_, err = a.Write([]byte("aaa"))
			So(err, ShouldBeNil)
			_, err = b.Write([]byte("bbb"))
			So(err, ShouldBeNil)

			So(b.Close(), ShouldBeNil)
			So(a.Close(), ShouldBeNil)
			So(arch.Close(), ShouldBeNil)

			entries := readTar(t, buf.Bytes())
			So(entries["a.json"], ShouldEqual, "aaa")
			So(entries["b.json"], ShouldEqual, "bbb")
		})

		Convey("should refuse to close with an open writer.", func() {
			file, err := arch.Create("a.json")
			So(err, ShouldBeNil)

			So(arch.Close(), ShouldNotBeNil)

			So(file.Close(), ShouldBeNil)
			So(arch.Close(), ShouldBeNil)
		})
	})
}

func TestZipArchiver(t *testing.T) {
	Convey("An encrypted zip archiver", t, func() {
		buf := &bytes.Buffer{}
		arch := NewEncryptedZipArchiver(buf, zip.Deflate, "secret")

		Convey("should store encrypted entries.", func() {
			file, err := arch.Create("stats.json")
			So(err, ShouldBeNil)
			_, err = file.Write([]byte("{}"))
			So(err, ShouldBeNil)
			So(file.Close(), ShouldBeNil)
			So(arch.Close(), ShouldBeNil)

			rdr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
			So(err, ShouldBeNil)
			So(rdr.File, ShouldHaveLength, 1)
			So(rdr.File[0].Name, ShouldEqual, "stats.json")
			So(rdr.File[0].IsEncrypted(), ShouldBeTrue)

			rdr.File[0].SetPassword("secret")
			in, err := rdr.File[0].Open()
			So(err, ShouldBeNil)
			defer in.Close()
			content, err := io.ReadAll(in)
			So(err, ShouldBeNil)
			So(string(content), ShouldEqual, "{}")
		})
	})
}

func TestFileArchiver(t *testing.T) {
	Convey("A file archiver", t, func() {
		dir := t.TempDir()
		arch, err := NewFileArchiver(dir)
		So(err, ShouldBeNil)

		Convey("should store entries as plain files.", func() {
			file, err := arch.Create("somehost/stats.json")
			So(err, ShouldBeNil)
			_, err = file.Write([]byte("{}"))
			So(err, ShouldBeNil)
			So(file.Close(), ShouldBeNil)
			So(arch.Close(), ShouldBeNil)

			content, err := os.ReadFile(filepath.Join(dir, "somehost", "stats.json"))
			So(err, ShouldBeNil)
			So(string(content), ShouldEqual, "{}")
		})

		Convey("should allow concurrently open entries.", func() {
			a, err := arch.Create("a.json")
			So(err, ShouldBeNil)
			b, err := arch.Create("b.json")
			So(err, ShouldBeNil)

			So(a.Close(), ShouldBeNil)
			So(b.Close(), ShouldBeNil)
			So(arch.Close(), ShouldBeNil)
		})
	})
}
