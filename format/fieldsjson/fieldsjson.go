// Package fieldsjson provides a format plugin that reads and writes field
// stores as JSON, one array of fields per record.
package fieldsjson

import (
	"bytes"

	"github.com/lehigh-university-libraries/bibwalk/format"
)

// Format implements the field dump format.
type Format struct{}

// Ensure Format implements the interfaces
var (
	_ format.Format     = (*Format)(nil)
	_ format.Parser     = (*Format)(nil)
	_ format.Serializer = (*Format)(nil)
)

// Name returns the format identifier.
func (f *Format) Name() string {
	return "fields"
}

// Description returns a human-readable format description.
func (f *Format) Description() string {
	return "Field store dump (JSON array of tag/value/level/used objects per record)"
}

// Extensions returns file extensions associated with this format.
func (f *Format) Extensions() []string {
	return []string{"json"}
}

// CanParse returns true if the input looks like a field dump.
func (f *Format) CanParse(peek []byte) bool {
	peek = bytes.TrimSpace(peek)
	if len(peek) == 0 || peek[0] != '[' {
		return false
	}
	return bytes.Contains(peek, []byte(`"tag"`))
}

func init() {
	format.Register(&Format{})
}
