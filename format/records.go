package format

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/lehigh-university-libraries/bibwalk/fields"
)

// RecordFailed handles a record that could not be converted. In strict mode
// it returns the error, numbered by record, so the caller can abort.
// Otherwise the record is logged and skipped and nil is returned.
func RecordFailed(opts *ParseOptions, n int, err error) error {
	if opts != nil && opts.Strict {
		return fmt.Errorf("record %d: %w", n+1, err)
	}
	source := ""
	if opts != nil {
		source = opts.SourceName
	}
	opts.Log().Warn("skipping record", "source", source, "record", n+1, "err", err)
	return nil
}

// Dump writes a field report for a converted record when verbose output is
// requested. Reports go to opts.ReportWriter, or stderr with color when it
// is a terminal.
func Dump(opts *ParseOptions, n int, f *fields.Fields) {
	if opts == nil || !opts.Verbose {
		return
	}
	opts.Log().Debug("converted record", "source", opts.SourceName, "record", n+1, "fields", f.Len())

	var w io.Writer = opts.ReportWriter
	colorize := false
	if w == nil {
		w = os.Stderr
		colorize = !color.NoColor
	}
	_ = fields.Report(w, f, colorize)
}
