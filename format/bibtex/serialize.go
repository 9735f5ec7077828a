package bibtex

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/lehigh-university-libraries/bibwalk/fields"
	"github.com/lehigh-university-libraries/bibwalk/format"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// outputLimit caps the size of each entry's output store. Zero means
// unbounded.
var outputLimit = 0

type rendered struct {
	text []byte
	err  error
}

// Serialize writes records as BibTeX entries. Records are rendered by
// opts.Workers goroutines and written in input order. A record whose entry
// cannot be built is skipped with a warning; the returned error joins the
// failures of every skipped record.
func (f *Format) Serialize(w io.Writer, records []*fields.Fields, opts *format.SerializeOptions) error {
	if opts == nil {
		opts = format.NewSerializeOptions()
	}

	if opts.UTF8BOM {
		if _, err := w.Write(utf8BOM); err != nil {
			return fmt.Errorf("writing byte-order mark: %w", err)
		}
	}

	var errs []error
	for i, r := range renderAll(records, opts) {
		if r.err != nil {
			opts.Log().Warn("skipping record", "record", i+1, "error", r.err)
			errs = append(errs, fmt.Errorf("record %d: %w", i+1, r.err))
			continue
		}
		if _, err := w.Write(r.text); err != nil {
			return fmt.Errorf("writing record %d: %w", i+1, err)
		}
	}
	return errors.Join(errs...)
}

// renderAll renders every record into its own buffer. Each record is
// handled by exactly one worker.
func renderAll(records []*fields.Fields, opts *format.SerializeOptions) []rendered {
	out := make([]rendered, len(records))

	workers := max(opts.Workers, 1)
	workers = min(workers, max(len(records), 1))

	jobs := make(chan int, len(records))
	for i := range records {
		jobs <- i
	}
	close(jobs)

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				out[i] = renderRecord(records[i], i, opts)
			}
		}()
	}
	wg.Wait()
	return out
}

func renderRecord(in *fields.Fields, n int, opts *format.SerializeOptions) rendered {
	if in == nil {
		return rendered{}
	}
	entry, err := buildEntry(in, n, opts)
	if err != nil {
		return rendered{err: err}
	}
	var buf bytes.Buffer
	writeEntry(&buf, entry, opts)
	return rendered{text: buf.Bytes()}
}

// writeEntry renders an output store. Field 0 is the entry type and field 1
// the citation key.
func writeEntry(buf *bytes.Buffer, out *fields.Fields, opts *format.SerializeOptions) {
	buf.WriteByte('@')
	buf.WriteString(caseTag(out.Value(0), opts))
	buf.WriteByte('{')
	buf.WriteString(out.Value(1))

	for i := 2; i < out.Len(); i++ {
		buf.WriteString(",\n")
		if opts.Whitespace {
			buf.WriteString("  ")
		}
		buf.WriteString(caseTag(out.Tag(i), opts))
		if opts.Whitespace {
			buf.WriteString(" = \t")
		} else {
			buf.WriteByte('=')
		}
		if opts.Brackets {
			buf.WriteByte('{')
			buf.WriteString(out.Value(i))
			buf.WriteByte('}')
		} else {
			buf.WriteByte('"')
			writeQuoted(buf, out.Value(i))
			buf.WriteByte('"')
		}
	}

	if opts.FinalComma {
		buf.WriteByte(',')
	}
	buf.WriteString("\n}\n\n")
}

func caseTag(s string, opts *format.SerializeOptions) string {
	if opts.Uppercase {
		return strings.ToUpper(s)
	}
	return s
}

// writeQuoted writes a value for a quote-delimited field. Bare double quotes
// become `` and '' in turn; a quote after a backslash is kept.
func writeQuoted(buf *bytes.Buffer, value string) {
	quotes := 0
	for i := 0; i < len(value); i++ {
		c := value[i]
		switch {
		case c != '"':
			buf.WriteByte(c)
		case i > 0 && value[i-1] == '\\':
			buf.WriteByte(c)
		case quotes%2 == 0:
			buf.WriteString("``")
			quotes++
		default:
			buf.WriteString("''")
			quotes++
		}
	}
}
