package charset

import (
	"bytes"
	"io"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Encoding represents a text encoding
type Encoding string

const (
	EncodingUTF8        Encoding = "utf-8"
	EncodingWindows1258 Encoding = "windows-1258"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DetectEncoding detects the encoding of a byte buffer. Vietnamese exports
// are UTF-8 (often with a BOM) or legacy Windows-1258.
func DetectEncoding(data []byte) Encoding {
	if bytes.HasPrefix(data, utf8BOM) {
		return EncodingUTF8
	}

	// Valid UTF-8 is always preferred; Windows-1258 high bytes form invalid
	// UTF-8 sequences, so a valid buffer cannot be a misdetected 1258 file.
	if utf8.Valid(data) {
		return EncodingUTF8
	}

	return EncodingWindows1258
}

// Decode converts a byte buffer from the specified encoding to a UTF-8 string.
// A leading BOM is stripped.
func Decode(data []byte, enc Encoding) (string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	if enc == EncodingUTF8 || enc == "" {
		if utf8.Valid(data) {
			return string(data), nil
		}
		// Caller guessed UTF-8 but the bytes are not; fall through to 1258
		return decodeWindows1258(data)
	}

	if enc == EncodingWindows1258 {
		// Validate UTF-8 first so an already-decoded file is not decoded twice
		if utf8.Valid(data) {
			return string(data), nil
		}
		return decodeWindows1258(data)
	}

	return string(data), nil
}

// DecodeAuto detects and decodes in one step
func DecodeAuto(data []byte) (string, error) {
	return Decode(data, DetectEncoding(data))
}

func decodeWindows1258(data []byte) (string, error) {
	decoder := charmap.Windows1258.NewDecoder()
	result, err := io.ReadAll(transform.NewReader(bytes.NewReader(data), decoder))
	if err != nil {
		return "", err
	}
	return string(result), nil
}

// ToUTF8Reader wraps a reader with a decoder to convert to UTF-8
func ToUTF8Reader(r io.Reader, enc Encoding) (io.Reader, error) {
	var decoder encoding.Encoding

	switch enc {
	case EncodingWindows1258:
		decoder = charmap.Windows1258
	default:
		return r, nil
	}

	return transform.NewReader(r, decoder.NewDecoder()), nil
}
