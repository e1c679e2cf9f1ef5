package magic

import (
	"bytes"
	"encoding/json"
)

// Detector reports whether raw (limited to limit bytes) matches a format.
type Detector func(raw []byte, limit uint32) bool

// trimLWS drops leading whitespace.
func trimLWS(in []byte) []byte {
	firstNonWS := 0
	for ; firstNonWS < len(in) && isWS(in[firstNonWS]); firstNonWS++ {
	}
	return in[firstNonWS:]
}

func isWS(b byte) bool {
	return b == '\t' || b == '\n' || b == '\x0c' || b == '\r' || b == ' '
}

// Utf16Be matches a text file encoded as UTF-16 with a big-endian BOM.
func Utf16Be(raw []byte, _ uint32) bool {
	return bytes.HasPrefix(raw, []byte{0xFE, 0xFF})
}

// Utf16Le matches a text file encoded as UTF-16 with a little-endian BOM.
func Utf16Le(raw []byte, _ uint32) bool {
	return bytes.HasPrefix(raw, []byte{0xFF, 0xFE})
}

// Text matches plain text by scanning for bytes that never occur in
// human-readable content, the same test git applies when deciding
// whether a blob diffs as text.
func Text(raw []byte, _ uint32) bool {
	if len(raw) == 0 {
		return false
	}
	if bytes.HasPrefix(raw, []byte{0xEF, 0xBB, 0xBF}) {
		raw = raw[3:]
	}
	for _, b := range raw {
		if b <= 0x08 || b == 0x0B || 0x0E <= b && b <= 0x1A || 0x1C <= b && b <= 0x1F {
			return false
		}
	}
	return true
}

// Html matches an HTML document by its leading markup.
func Html(raw []byte, _ uint32) bool {
	raw = trimLWS(raw)
	if len(raw) == 0 {
		return false
	}
	for _, tag := range [][]byte{
		[]byte("<!DOCTYPE HTML"),
		[]byte("<HTML"),
		[]byte("<HEAD"),
		[]byte("<SCRIPT"),
		[]byte("<IFRAME"),
		[]byte("<H1"),
		[]byte("<DIV"),
		[]byte("<FONT"),
		[]byte("<TABLE"),
		[]byte("<A"),
		[]byte("<STYLE"),
		[]byte("<TITLE"),
		[]byte("<B"),
		[]byte("<BODY"),
		[]byte("<BR"),
		[]byte("<P"),
	} {
		if len(raw) < len(tag)+1 {
			continue
		}
		if bytes.EqualFold(raw[:len(tag)], tag) {
			// a valid tag is terminated by a space or closing bracket
			if db := raw[len(tag)]; db == ' ' || db == '>' {
				return true
			}
		}
	}
	return false
}

// Xml matches an XML prolog.
func Xml(raw []byte, _ uint32) bool {
	return bytes.HasPrefix(trimLWS(raw), []byte("<?xml"))
}

// Svg matches an SVG document root element, with or without a prolog,
// doctype, or leading comments.
func Svg(raw []byte, _ uint32) bool {
	raw = trimLWS(raw)
	for len(raw) > 0 {
		switch {
		case bytes.HasPrefix(raw, []byte("<?xml")), bytes.HasPrefix(raw, []byte("<!DOCTYPE")):
			end := bytes.IndexByte(raw, '>')
			if end < 0 {
				return false
			}
			raw = trimLWS(raw[end+1:])
		case bytes.HasPrefix(raw, []byte("<!--")):
			end := bytes.Index(raw, []byte("-->"))
			if end < 0 {
				return false
			}
			raw = trimLWS(raw[end+3:])
		default:
			return bytes.HasPrefix(raw, []byte("<svg"))
		}
	}
	return false
}

// JSON matches a complete JSON document. A payload cut mid-document by
// the read limit fails the parse and falls back to its parent type.
func JSON(raw []byte, _ uint32) bool {
	raw = trimLWS(raw)
	if len(raw) == 0 || raw[0] != '{' && raw[0] != '[' {
		return false
	}
	return json.Valid(raw)
}
