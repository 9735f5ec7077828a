// Package medline provides a format plugin for MEDLINE/PubMed XML.
package medline

import (
	"bytes"

	"github.com/lehigh-university-libraries/bibwalk/format"
)

// Format implements the MEDLINE/PubMed XML format.
type Format struct{}

// Ensure Format implements the interfaces
var (
	_ format.Format = (*Format)(nil)
	_ format.Parser = (*Format)(nil)
)

// Name returns the format identifier.
func (f *Format) Name() string {
	return "medline"
}

// Description returns a human-readable format description.
func (f *Format) Description() string {
	return "MEDLINE/PubMed XML (PubmedArticleSet, MedlineCitationSet)"
}

// Extensions returns file extensions associated with this format.
func (f *Format) Extensions() []string {
	return []string{"xml"}
}

// CanParse returns true if the input looks like PubMed XML.
func (f *Format) CanParse(peek []byte) bool {
	peek = bytes.TrimSpace(peek)
	if len(peek) == 0 || peek[0] != '<' {
		return false
	}
	return bytes.Contains(peek, []byte("<PubmedArticle")) ||
		bytes.Contains(peek, []byte("<MedlineCitation"))
}

func init() {
	format.Register(&Format{})
}
