package format

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/pgzip"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

var (
	utf8BOM   = []byte{0xEF, 0xBB, 0xBF}
	gzipMagic = []byte{0x1f, 0x8b}
)

// Input is a decoded input stream.
type Input struct {
	*bufio.Reader
	gz *pgzip.Reader
}

// Close releases the decompressor, if any. It does not close the
// underlying reader.
func (in *Input) Close() error {
	if in.gz != nil {
		return in.gz.Close()
	}
	return nil
}

// OpenInput wraps r so that gzip-compressed input is decompressed, a
// leading UTF-8 byte-order mark is dropped, and ISO-8859-1 input is
// converted to UTF-8 when charset names it. An empty charset means UTF-8.
func OpenInput(r io.Reader, charset string) (*Input, error) {
	in := &Input{}
	br := bufio.NewReader(r)

	magic, _ := br.Peek(len(gzipMagic))
	if bytes.Equal(magic, gzipMagic) {
		gz, err := pgzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("opening gzip stream: %w", err)
		}
		in.gz = gz
		br = bufio.NewReader(gz)
	}

	var src io.Reader = br
	switch {
	case !SupportedCharset(charset):
		return nil, fmt.Errorf("unsupported charset: %s", charset)
	case isLatin1(charset):
		src = transform.NewReader(br, charmap.ISO8859_1.NewDecoder())
	}

	in.Reader = bufio.NewReader(src)
	if bom, _ := in.Peek(len(utf8BOM)); bytes.Equal(bom, utf8BOM) {
		if _, err := in.Discard(len(utf8BOM)); err != nil {
			return nil, err
		}
	}
	return in, nil
}

// SupportedCharset reports whether OpenInput can decode charset.
func SupportedCharset(charset string) bool {
	switch strings.ToLower(charset) {
	case "", "utf-8", "utf8":
		return true
	}
	return isLatin1(charset)
}

func isLatin1(charset string) bool {
	switch strings.ToLower(charset) {
	case "latin1", "latin-1", "iso-8859-1", "iso8859-1":
		return true
	}
	return false
}
