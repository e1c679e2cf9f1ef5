package mime

import (
	"strings"

	"github.com/antgroup/hugescm/modules/mime/internal/magic"
)

// MIME is a node in the detection hierarchy. Children are more specific
// refinements of their parent: a match descends as deep as the content
// allows, so the returned node's Parent chain records every broader type
// the content also satisfies.
type MIME struct {
	mime      string
	aliases   []string
	extension string
	detector  magic.Detector
	children  []*MIME
	parent    *MIME
}

func newMIME(mime, extension string, detector magic.Detector, children ...*MIME) *MIME {
	m := &MIME{
		mime:      mime,
		extension: extension,
		detector:  detector,
		children:  children,
	}
	for _, c := range children {
		c.parent = m
	}
	return m
}

func (m *MIME) alias(aliases ...string) *MIME {
	m.aliases = aliases
	return m
}

// String returns the detected media type, including any charset
// parameter, e.g. "text/plain; charset=utf-8".
func (m *MIME) String() string {
	return m.mime
}

// Extension returns the canonical file extension for the type.
func (m *MIME) Extension() string {
	return m.extension
}

// Parent returns the next broader type the content also matched, or nil
// at the root.
func (m *MIME) Parent() *MIME {
	return m.parent
}

// Is reports whether the node's type or one of its aliases equals
// expected, ignoring any parameters on either side.
func (m *MIME) Is(expected string) bool {
	expected, _, _ = strings.Cut(expected, ";")
	found, _, _ := strings.Cut(m.mime, ";")
	if expected == found {
		return true
	}
	for _, alias := range m.aliases {
		if alias == expected {
			return true
		}
	}
	return false
}

func (m *MIME) match(in []byte, limit uint32) *MIME {
	for _, c := range m.children {
		if c.detector(in, limit) {
			return c.match(in, limit)
		}
	}
	return m
}
