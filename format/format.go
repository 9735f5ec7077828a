// Package format defines the interface for citation format plugins.
package format

import (
	"io"
	"log/slog"

	"github.com/lehigh-university-libraries/bibwalk/fields"
)

// Format defines the interface that all format plugins must implement.
type Format interface {
	// Name returns the format identifier (e.g., "mods", "ris", "bibtex")
	Name() string

	// Description returns a human-readable format description
	Description() string

	// Extensions returns file extensions associated with this format
	Extensions() []string

	// CanParse returns true if this format can parse the given input
	CanParse(peek []byte) bool
}

// Parser is a format that can read input into field stores, one per record.
type Parser interface {
	Format

	// Parse reads input and returns one store per record.
	Parse(r io.Reader, opts *ParseOptions) ([]*fields.Fields, error)
}

// Serializer is a format that can write field stores to output.
type Serializer interface {
	Format

	// Serialize writes records to the output.
	Serialize(w io.Writer, records []*fields.Fields, opts *SerializeOptions) error
}

// Language is an output language preference.
type Language int

const (
	LanguageUnset Language = iota
	LanguageEnglish
	LanguageSwedish
)

// String returns the two-letter code, or "" when unset.
func (l Language) String() string {
	switch l {
	case LanguageEnglish:
		return "en"
	case LanguageSwedish:
		return "sv"
	}
	return ""
}

// ParseLanguage maps "en"/"english" and "sv"/"swedish" to a Language.
// Anything else is LanguageUnset.
func ParseLanguage(s string) Language {
	switch s {
	case "en", "EN", "eng", "english", "English":
		return LanguageEnglish
	case "sv", "SV", "swe", "swedish", "Swedish":
		return LanguageSwedish
	}
	return LanguageUnset
}

// ParseOptions contains options for parsing.
type ParseOptions struct {
	// Charset of the input: "", "utf-8" or "latin1"
	Charset string

	// Verbose reports unrecognized tags and dumps each converted record
	Verbose bool

	// Strict fails the whole parse on the first bad record instead of skipping it
	Strict bool

	// SourceName is an identifier for the source (for error messages)
	SourceName string

	// Logger receives diagnostics. Nil means slog.Default().
	Logger *slog.Logger

	// ReportWriter receives verbose field reports. Nil means stderr.
	ReportWriter io.Writer
}

// Log returns the configured logger.
func (o *ParseOptions) Log() *slog.Logger {
	if o == nil || o.Logger == nil {
		return slog.Default()
	}
	return o.Logger
}

// SerializeOptions contains options for serialization. Serializers treat it
// as read-only.
type SerializeOptions struct {
	// Uppercase writes entry types and field names in upper case
	Uppercase bool

	// Whitespace indents fields and pads the equals sign
	Whitespace bool

	// Brackets delimits values with braces instead of quotes
	Brackets bool

	// FinalComma writes a comma after the last field
	FinalComma bool

	// StrictKey keeps only ASCII letters and digits in citation keys
	StrictKey bool

	// DropKey writes entries without citation keys
	DropKey bool

	// ShortTitle prefers abbreviated host titles
	ShortTitle bool

	// SingleDash joins page ranges with "-" instead of "--"
	SingleDash bool

	// Language selects the preferred language for bilingual fields
	Language Language

	// UTF8BOM writes a byte-order mark before the first record
	UTF8BOM bool

	// Pretty enables pretty-printing (for JSON output)
	Pretty bool

	// Workers is the number of goroutines rendering records. Values below
	// one mean one.
	Workers int

	// Logger receives diagnostics. Nil means slog.Default().
	Logger *slog.Logger
}

// Log returns the configured logger.
func (o *SerializeOptions) Log() *slog.Logger {
	if o == nil || o.Logger == nil {
		return slog.Default()
	}
	return o.Logger
}

// NewParseOptions creates ParseOptions with defaults.
func NewParseOptions() *ParseOptions {
	return &ParseOptions{}
}

// NewSerializeOptions creates SerializeOptions with defaults.
func NewSerializeOptions() *SerializeOptions {
	return &SerializeOptions{
		Workers: 1,
	}
}
