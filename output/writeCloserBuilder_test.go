package output

import (
	"bytes"
	"io"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func recordingDecorator(name, extension string, log *[]string) OutputDecorator {
	return func(wc io.WriteCloser) (io.WriteCloser, error) {
		*log = append(*log, name)
		return &decoratedWriteCloser{
			writer: NewNopWriteCloser(wc),
			base:   wc,
			meta: map[string]interface{}{
				metaKeySuggestedFileExtension: extension,
			},
		}, nil
	}
}

func TestWriteCloserBuilder(t *testing.T) {
	Convey("A write closer builder", t, func() {
		log := make([]string, 0)
		builder := NewWriteCloserBuilder().
			Append(recordingDecorator("first", ".a", &log)).
			Append(recordingDecorator("second", ".b", &log))

		Convey("should combine file extensions outermost layer first.", func() {
			So(builder.SuggestedFileExtension(), ShouldEqual, ".b.a")
		})

		Convey("when building", func() {
			buf := &bytes.Buffer{}
			wc, err := builder.Build(NewNopWriteCloser(buf))
			So(err, ShouldBeNil)

			Convey("should apply decorators in append order.", func() {
				So(log, ShouldResemble, []string{"first", "second"})
			})

			Convey("should write through to the underlying writer.", func() {
				_, err := wc.Write([]byte("hello"))
				So(err, ShouldBeNil)
				So(wc.Close(), ShouldBeNil)
				So(buf.String(), ShouldEqual, "hello")
			})
		})
	})
}

func TestZSTDDecoratorExtension(t *testing.T) {
	Convey("A ZSTD compression decorator", t, func() {
		builder := NewWriteCloserBuilder().Append(ZSTDCompressionDecorator())

		Convey("should suggest the .zst extension.", func() {
			So(strings.HasSuffix(builder.SuggestedFileExtension(), ".zst"), ShouldBeTrue)
		})

		Convey("should produce closeable compressed output.", func() {
			buf := &bytes.Buffer{}
			wc, err := builder.Build(NewNopWriteCloser(buf))
			So(err, ShouldBeNil)

			_, err = wc.Write([]byte("some data to compress"))
			So(err, ShouldBeNil)
			So(wc.Close(), ShouldBeNil)
			So(buf.Len(), ShouldBeGreaterThan, 0)
		})
	})
}
