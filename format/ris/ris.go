// Package ris provides a format plugin for RIS tagged citation files.
package ris

import (
	"bytes"

	"github.com/lehigh-university-libraries/bibwalk/format"
)

// Format implements the RIS format.
type Format struct{}

var (
	_ format.Format = (*Format)(nil)
	_ format.Parser = (*Format)(nil)
)

// Name returns the format identifier.
func (f *Format) Name() string {
	return "ris"
}

// Description returns a human-readable format description.
func (f *Format) Description() string {
	return "RIS (Research Information Systems tagged format)"
}

// Extensions returns file extensions associated with this format.
func (f *Format) Extensions() []string {
	return []string{"ris"}
}

// CanParse returns true if the input holds a RIS start tag.
func (f *Format) CanParse(peek []byte) bool {
	peek = bytes.TrimPrefix(bytes.TrimSpace(peek), []byte("\xef\xbb\xbf"))
	if isStartTag(string(peek)) {
		return true
	}
	return bytes.Contains(peek, []byte("\nTY  - ")) || bytes.Contains(peek, []byte("\nTY   - "))
}

func init() {
	format.Register(&Format{})
}
