package mime

import "github.com/antgroup/hugescm/modules/mime/internal/magic"

// The tree deliberately hangs every textual format under text/plain so
// that walking Parent from any of them answers "is this content text":
// that is the question both the diff text reader and the object storer
// ask before deciding how to handle a payload.
var (
	csv  = newMIME("text/csv", ".csv", magic.Csv).alias("text/x-csv", "text/comma-separated-values")
	tsv  = newMIME("text/tsv", ".tsv", magic.Tsv).alias("text/tab-separated-values")
	json = newMIME("application/json", ".json", magic.JSON)
	svg  = newMIME("image/svg+xml", ".svg", magic.Svg)
	xml  = newMIME("text/xml; charset=utf-8", ".xml", magic.Xml, svg).alias("application/xml")
	html = newMIME("text/html; charset=utf-8", ".html", magic.Html)

	utf8Text  = newMIME("text/plain; charset=utf-8", ".txt", magic.Text, html, xml, json, csv, tsv).alias("text/plain")
	utf16Be   = newMIME("text/plain; charset=utf-16be", ".txt", magic.Utf16Be).alias("text/plain")
	utf16Le   = newMIME("text/plain; charset=utf-16le", ".txt", magic.Utf16Le).alias("text/plain")
	binaryAny = func([]byte, uint32) bool { return true }

	root = newMIME("application/octet-stream", "", binaryAny, utf16Be, utf16Le, utf8Text)
)
