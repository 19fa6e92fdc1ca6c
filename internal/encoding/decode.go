// Package encoding normalises uploaded text files to UTF-8. Spreadsheet tools save CSV
// exports in whatever code page the host uses, so imports cannot assume UTF-8.
package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	xenc "golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const sniffLen = 4096

const (
	UTF8        = "UTF-8"
	UTF16LE     = "UTF-16LE"
	UTF16BE     = "UTF-16BE"
	Windows1252 = "windows-1252"
	ISO88599    = "ISO-8859-9"
	ISO885915   = "ISO-8859-15"
)

var boms = []struct {
	prefix  []byte
	charset string
}{
	{[]byte{0xEF, 0xBB, 0xBF}, UTF8},
	{[]byte{0xFF, 0xFE}, UTF16LE},
	{[]byte{0xFE, 0xFF}, UTF16BE},
}

// decoders maps chardet names onto the decoders we trust. Anything else falls back to Windows-1252.
var decoders = map[string]xenc.Encoding{
	UTF16LE:      unicode.UTF16(unicode.LittleEndian, unicode.UseBOM),
	UTF16BE:      unicode.UTF16(unicode.BigEndian, unicode.UseBOM),
	"ISO-8859-1": charmap.Windows1252,
	Windows1252:  charmap.Windows1252,
	ISO88599:     charmap.ISO8859_9,
	ISO885915:    charmap.ISO8859_15,
}

// Detect names the charset of buf: BOM first, then UTF-8 validity, then the chardet
// heuristic, then Windows-1252.
func Detect(buf []byte) string {
	for _, b := range boms {
		if bytes.HasPrefix(buf, b.prefix) {
			return b.charset
		}
	}

	if utf8.Valid(buf) {
		return UTF8
	}

	// buf is not valid UTF-8 here, so a UTF-8 guess from chardet is ignored.
	if result, err := chardet.NewTextDetector().DetectBest(buf); err == nil {
		if _, ok := decoders[result.Charset]; ok {
			return result.Charset
		}
	}

	return Windows1252
}

// NewUTF8Reader returns a reader that yields r decoded to UTF-8, with any UTF-8 BOM removed.
func NewUTF8Reader(r io.Reader) (io.Reader, error) {
	br := bufio.NewReaderSize(r, sniffLen)

	buf, err := br.Peek(sniffLen)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, fmt.Errorf("peek: %w", err)
	}

	// A full window may end inside a multi-byte rune.
	if err == nil {
		buf = trimPartialRune(buf)
	}

	charset := Detect(buf)
	if charset == UTF8 {
		if bytes.HasPrefix(buf, boms[0].prefix) {
			_, _ = br.Discard(len(boms[0].prefix))
		}

		return br, nil
	}

	return transform.NewReader(br, decoders[charset].NewDecoder()), nil
}

func trimPartialRune(buf []byte) []byte {
	for i := 1; i < utf8.UTFMax && i <= len(buf); i++ {
		if !utf8.RuneStart(buf[len(buf)-i]) {
			continue
		}

		if !utf8.FullRune(buf[len(buf)-i:]) {
			return buf[:len(buf)-i]
		}

		break
	}

	return buf
}
