package pgp

import (
	"bytes"
	"io"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestSymmetricRoundtrip(t *testing.T) {
	Convey("Symmetrically encrypted data", t, func() {
		plaintext := []byte("per-thread load telemetry")
		password := "correct horse battery staple"

		buf := &bytes.Buffer{}
		enc, err := NewPGPSymmetricEncryptor(password, true, buf)
		So(err, ShouldBeNil)

		_, err = enc.Write(plaintext)
		So(err, ShouldBeNil)
		So(enc.Close(), ShouldBeNil)

		Convey("should decrypt with the correct password.", func() {
			dec, err := NewPGPSymmetricDecryptor(password, bytes.NewReader(buf.Bytes()))
			So(err, ShouldBeNil)

			decrypted, err := io.ReadAll(dec)
			So(err, ShouldBeNil)
			So(decrypted, ShouldResemble, plaintext)
		})

		Convey("should not parse as garbage input.", func() {
			_, err := NewPGPSymmetricDecryptor(password, bytes.NewReader([]byte("not a pgp message")))
			So(err, ShouldNotBeNil)
		})
	})
}
