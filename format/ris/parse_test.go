package ris

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/lehigh-university-libraries/bibwalk/classify"
	"github.com/lehigh-university-libraries/bibwalk/fields"
	"github.com/lehigh-university-libraries/bibwalk/format"
)

const journalArticle = "\xef\xbb\xbfTY  - JOUR\r\n" +
	"AU  - Smith, John A.\r\n" +
	"AU  - Jane Doe and Richard Roe\r\n" +
	"TI  - Sample title: with a subtitle\r\n" +
	"JO  - Journal of Tests\r\n" +
	"PY  - 2001/05/12/Spring\r\n" +
	"VL  - 12\r\n" +
	"IS  - 3\r\n" +
	"SP  - 100\r\n" +
	"EP  - 110\r\n" +
	"SN  - 1234-5678\r\n" +
	"DO  - https://doi.org/10.1000/abc\r\n" +
	"N1  - first part of a note\r\n" +
	"  continued here\r\n" +
	"L1  - file:///tmp/paper.pdf\r\n" +
	"L1  - https://example.org/paper.pdf\r\n" +
	"XX  - unknown tag\r\n" +
	"ER  - \r\n"

func parse(t *testing.T, input string, opts *format.ParseOptions) []*fields.Fields {
	t.Helper()
	records, err := (&Format{}).Parse(strings.NewReader(input), opts)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return records
}

func TestParseJournalArticle(t *testing.T) {
	records := parse(t, journalArticle, nil)
	if len(records) != 1 {
		t.Fatalf("records = %d, want 1", len(records))
	}
	f := records[0]

	tests := []struct {
		tag   string
		level int
		want  string
	}{
		{"TITLE", fields.LevelMain, "Sample title"},
		{"SUBTITLE", fields.LevelMain, "with a subtitle"},
		{"TITLE", fields.LevelHost, "Journal of Tests"},
		{"PARTDATE:YEAR", fields.LevelHost, "2001"},
		{"PARTDATE:MONTH", fields.LevelHost, "05"},
		{"PARTDATE:DAY", fields.LevelHost, "12"},
		{"PARTDATE:OTHER", fields.LevelHost, "Spring"},
		{"VOLUME", fields.LevelHost, "12"},
		{"ISSUE", fields.LevelHost, "3"},
		{"PAGES:START", fields.LevelHost, "100"},
		{"PAGES:STOP", fields.LevelHost, "110"},
		{"ISSN", fields.LevelHost, "1234-5678"},
		{"DOI", fields.LevelMain, "10.1000/abc"},
		{"NOTES", fields.LevelMain, "first part of a note continued here"},
		{"FILEATTACH", fields.LevelMain, "///tmp/paper.pdf"},
		{"URL", fields.LevelMain, "https://example.org/paper.pdf"},
		{"RESOURCE", fields.LevelMain, "text"},
		{"ISSUANCE", fields.LevelHost, "continuing"},
	}
	for _, tt := range tests {
		if got, _ := f.Lookup(tt.tag, tt.level); got != tt.want {
			t.Errorf("%s (level %d) = %q, want %q", tt.tag, tt.level, got, tt.want)
		}
	}

	var authors []string
	for _, i := range f.FindAll("AUTHOR", fields.LevelMain) {
		authors = append(authors, f.Value(i))
	}
	if got := strings.Join(authors, ";"); got != "Smith|John|A.;Doe|Jane;Roe|Richard" {
		t.Errorf("authors = %q", got)
	}
	if got := classify.Classify(f, 0, nil); got != classify.Article {
		t.Errorf("Classify = %v, want Article", got)
	}
}

func TestReferenceFraming(t *testing.T) {
	var logs bytes.Buffer
	opts := format.NewParseOptions()
	opts.Logger = slog.New(slog.NewTextHandler(&logs, nil))

	input := "AU  - Stray, Line\n" +
		"TY  - BOOK\n" +
		"TI  - First\n" +
		"TY   - CHAP\n" +
		"TI   - Second\n" +
		"ER   -\n" +
		"\n" +
		"TY  - RPRT\n" +
		"TI  - Third\n"

	records := parse(t, input, opts)
	if len(records) != 3 {
		t.Fatalf("records = %d, want 3", len(records))
	}
	for i, want := range []string{"First", "Second", "Third"} {
		if got, _ := records[i].Lookup("TITLE", fields.LevelMain); got != want {
			t.Errorf("record %d TITLE = %q, want %q", i+1, got, want)
		}
	}
	if !strings.Contains(logs.String(), "tagged line not in properly started reference") {
		t.Errorf("missing warning for stray line, logs:\n%s", logs.String())
	}
	if records[0].Has("AUTHOR", fields.LevelAny) {
		t.Error("stray line before TY should be ignored")
	}
}

func TestIsTag(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"TY  - JOUR", true},
		{"ER  -", true},
		{"A1  - Name", true},
		{"TY   - JOUR", true},
		{"ER   -", true},
		{"ty  - JOUR", false},
		{"T   - x", false},
		{"TY - JOUR", false},
		{"TY  -JOUR", false},
		{"continued", false},
	}
	for _, tt := range tests {
		if got := isTag(tt.line); got != tt.want {
			t.Errorf("isTag(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}

func TestUnknownTypeAndVerbose(t *testing.T) {
	var logs bytes.Buffer
	opts := format.NewParseOptions()
	opts.Verbose = true
	opts.ReportWriter = &bytes.Buffer{}
	opts.Logger = slog.New(slog.NewTextHandler(&logs, nil))

	records := parse(t, "TY  - WEIRD\nTI  - Something\nZZ  - odd\nER  -\n", opts)
	if len(records) != 1 {
		t.Fatalf("records = %d", len(records))
	}
	out := logs.String()
	if !strings.Contains(out, "unknown RIS reference type") {
		t.Errorf("missing unknown type warning:\n%s", out)
	}
	if !strings.Contains(out, "Did not identify RIS tag 'ZZ'") {
		t.Errorf("missing unknown tag report:\n%s", out)
	}
	if strings.Contains(out, "'TY'") {
		t.Errorf("TY should never be reported:\n%s", out)
	}
}

func TestThesisHints(t *testing.T) {
	records := parse(t, "TY  - THES\nTI  - A thesis\nPB  - KTH\nU1  - Masters Thesis\nER  -\n", nil)
	f := records[0]
	if got, _ := f.Lookup("SCHOOL", fields.LevelMain); got != "KTH" {
		t.Errorf("SCHOOL = %q", got)
	}
	if got := classify.Classify(f, 0, nil); got != classify.MastersThesis {
		t.Errorf("Classify = %v, want MastersThesis", got)
	}
}

func TestChapterLevels(t *testing.T) {
	records := parse(t, "TY  - CHAP\nTI  - Chapter\nBT  - The Book\nED  - Editor, Ed\nSN  - 0-306-40615-2\nER  -\n", nil)
	f := records[0]
	if got, _ := f.Lookup("TITLE", fields.LevelHost); got != "The Book" {
		t.Errorf("host TITLE = %q", got)
	}
	if got, _ := f.Lookup("EDITOR", fields.LevelHost); got != "Editor|Ed" {
		t.Errorf("host EDITOR = %q", got)
	}
	if got, _ := f.Lookup("ISBN", fields.LevelHost); got != "0-306-40615-2" {
		t.Errorf("ISBN = %q", got)
	}
	if got := classify.Classify(f, 0, nil); got != classify.InBook {
		t.Errorf("Classify = %v, want Inbook", got)
	}
}

func TestSplitTitle(t *testing.T) {
	tests := []struct {
		in, base, sub string
	}{
		{"Plain", "Plain", ""},
		{"Main: Sub", "Main", "Sub"},
		{"Why? Because", "Why?", "Because"},
		{"Trailing:", "Trailing:", ""},
	}
	for _, tt := range tests {
		base, sub := splitTitle(tt.in)
		if base != tt.base || sub != tt.sub {
			t.Errorf("splitTitle(%q) = %q, %q; want %q, %q", tt.in, base, sub, tt.base, tt.sub)
		}
	}
}

func TestSerialTag(t *testing.T) {
	tests := map[string]string{
		"1234-5678":         "ISSN",
		"0-306-40615-2":     "ISBN",
		"978-0-306-40615-7": "ISBN",
		"ISSN 0000-0000":    "ISSN",
		"12345":             "SERIALNUMBER",
	}
	for in, want := range tests {
		if got := serialTag(in); got != want {
			t.Errorf("serialTag(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNoReferences(t *testing.T) {
	if _, err := (&Format{}).Parse(strings.NewReader("just text\n"), nil); err == nil {
		t.Error("expected an error for input without references")
	}
}

func TestCanParse(t *testing.T) {
	f := &Format{}
	if !f.CanParse([]byte("TY  - JOUR\nTI  - x")) {
		t.Error("should detect RIS")
	}
	if !f.CanParse([]byte("\xef\xbb\xbfTY  - BOOK")) {
		t.Error("should detect RIS after a BOM")
	}
	if f.CanParse([]byte("<mods/>")) {
		t.Error("should not detect XML")
	}
}
