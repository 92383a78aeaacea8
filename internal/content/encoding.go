package content

import (
	"bytes"
	"errors"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

var errUndecodable = errors.New("content: bytes do not decode with any supported encoding")

type textDecoder struct {
	name   string
	decode func([]byte) (string, bool)
}

// textDecoders run in order; the first that accepts the bytes wins.
var textDecoders = []textDecoder{
	{name: "utf-8-sig", decode: decodeUTF8BOM},
	{name: "utf-8", decode: decodeUTF8},
	{name: "cp1252", decode: strictCharmap(charmap.Windows1252)},
	{name: "latin-1", decode: strictCharmap(charmap.ISO8859_1)},
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func decodeUTF8BOM(data []byte) (string, bool) {
	if !bytes.HasPrefix(data, utf8BOM) {
		return "", false
	}
	out, err := unicode.UTF8BOM.NewDecoder().Bytes(data)
	if err != nil || !utf8.Valid(out) {
		return "", false
	}
	return string(out), true
}

func decodeUTF8(data []byte) (string, bool) {
	if !utf8.Valid(data) {
		return "", false
	}
	return string(data), true
}

func strictCharmap(cm *charmap.Charmap) func([]byte) (string, bool) {
	return func(data []byte) (string, bool) {
		for _, b := range data {
			if r := cm.DecodeByte(b); r == utf8.RuneError {
				return "", false
			}
		}
		out, err := cm.NewDecoder().Bytes(data)
		if err != nil {
			return "", false
		}
		return string(out), true
	}
}

// DecodeText decodes file bytes with the first matching encoding and trims
// surrounding whitespace. Line endings are normalized to "\n".
func DecodeText(data []byte) (text string, encodingName string, err error) {
	for _, dec := range textDecoders {
		if out, ok := dec.decode(data); ok {
			out = strings.ReplaceAll(out, "\r\n", "\n")
			out = strings.ReplaceAll(out, "\r", "\n")
			return strings.TrimSpace(out), dec.name, nil
		}
	}
	return "", "", errUndecodable
}
