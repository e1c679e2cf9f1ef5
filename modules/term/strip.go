package term

import "github.com/acarl005/stripansi"

// StripANSI removes ANSI escape sequences from s, for writing styled
// output to a non-terminal sink.
func StripANSI(s string) string {
	return stripansi.Strip(s)
}
