package bibtex

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/lehigh-university-libraries/bibwalk/fields"
	"github.com/lehigh-university-libraries/bibwalk/format"
)

type field struct {
	tag   string
	value string
	level int
}

func record(fs ...field) *fields.Fields {
	f := fields.New()
	for _, x := range fs {
		f.AddDup(x.tag, x.value, x.level)
	}
	return f
}

func quietOptions() *format.SerializeOptions {
	opts := format.NewSerializeOptions()
	opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	return opts
}

func serialize(t *testing.T, opts *format.SerializeOptions, records ...*fields.Fields) string {
	t.Helper()
	var buf bytes.Buffer
	if err := (&Format{}).Serialize(&buf, records, opts); err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	return buf.String()
}

func build(t *testing.T, in *fields.Fields, opts *format.SerializeOptions) *fields.Fields {
	t.Helper()
	out, err := buildEntry(in, 0, opts)
	if err != nil {
		t.Fatalf("buildEntry: %v", err)
	}
	return out
}

func values(out *fields.Fields, tag string) []string {
	var vs []string
	for _, i := range out.FindAll(tag, fields.LevelAny) {
		vs = append(vs, out.Value(i))
	}
	return vs
}

func first(out *fields.Fields, tag string) string {
	if i := out.Find(tag, fields.LevelAny); i != -1 {
		return out.Value(i)
	}
	return ""
}

func TestSerializeArticle(t *testing.T) {
	in := record(
		field{"REFNUM", "Smith 2001|extra", 0},
		field{"AUTHOR", "Smith|John|A.", 0},
		field{"AUTHOR:CORP", "ACME Lab", 0},
		field{"TITLE", "Sample title", 0},
		field{"SUBTITLE", "a subtitle", 0},
		field{"TITLE", "Journal of Tests", 1},
		field{"GENRE", "academic journal", 1},
		field{"PARTDATE:YEAR", "2001", 1},
		field{"PARTDATE:MONTH", "05", 1},
		field{"VOLUME", "12", 1},
		field{"ISSUE", "3", 1},
		field{"PAGES:START", "100", 1},
		field{"PAGES:STOP", "110", 1},
		field{"DOI", "10.1000/abc", 0},
	)

	got := serialize(t, quietOptions(), in)
	want := "@Article{Smith2001,\n" +
		"author=\"Smith, John A.\nand {ACME Lab}\",\n" +
		"title=\"Sample title: a subtitle\",\n" +
		"journal=\"Journal of Tests\",\n" +
		"year=\"2001\",\n" +
		"month=\"May\",\n" +
		"volume=\"12\",\n" +
		"number=\"3\",\n" +
		"pages=\"100--110\",\n" +
		"doi=\"10.1000/abc\",\n" +
		"url=\"https://doi.org/10.1000/abc\"\n" +
		"}\n\n"
	if got != want {
		t.Errorf("Serialize =\n%s\nwant\n%s", got, want)
	}
	if unused := in.Unused(); len(unused) != 1 || in.Tag(unused[0]) != "GENRE" {
		t.Errorf("unused fields = %v, want only GENRE", unused)
	}
}

func TestSerializeRenderingOptions(t *testing.T) {
	in := record(
		field{"REFNUM", "k", 0},
		field{"GENRE", "book", 0},
		field{"AUTHOR", "Doe|Jane", 0},
		field{"AUTHOR", "Roe|Richard", 0},
		field{"TITLE", "T", 0},
	)
	opts := quietOptions()
	opts.Whitespace = true
	opts.Uppercase = true
	opts.Brackets = true
	opts.FinalComma = true

	got := serialize(t, opts, in)
	want := "@BOOK{k,\n" +
		"  AUTHOR = \t{Doe, Jane\n\t\tand Roe, Richard},\n" +
		"  TITLE = \t{T},\n" +
		"}\n\n"
	if got != want {
		t.Errorf("Serialize =\n%q\nwant\n%q", got, want)
	}
}

func TestCitationKey(t *testing.T) {
	tests := []struct {
		refnum string
		strict bool
		want   string
	}{
		{"Smith 2001|extra", false, "Smith2001"},
		{"Smith-2001!", true, "Smith2001"},
		{"Smith-2001!", false, "Smith-2001!"},
		{"a\tb c", false, "abc"},
		{"|all gone", false, ""},
	}
	for _, tt := range tests {
		if got := citationKey(tt.refnum, tt.strict); got != tt.want {
			t.Errorf("citationKey(%q, %v) = %q, want %q", tt.refnum, tt.strict, got, tt.want)
		}
	}
}

func TestCitationKeyDropped(t *testing.T) {
	opts := quietOptions()
	opts.DropKey = true
	got := serialize(t, opts, record(field{"REFNUM", "key", 0}, field{"TITLE", "T", 0}))
	if !strings.HasPrefix(got, "@Misc{,\n") {
		t.Errorf("Serialize = %q, want an empty key", got)
	}
}

func TestWriteQuoted(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`He said "hi" and "bye"`, "He said ``hi'' and ``bye''"},
		{`a \"b`, `a \"b`},
		{`"one`, "``one"},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		writeQuoted(&buf, tt.in)
		if got := buf.String(); got != tt.want {
			t.Errorf("writeQuoted(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBracketsKeepQuotes(t *testing.T) {
	opts := quietOptions()
	opts.Brackets = true
	got := serialize(t, opts, record(field{"TITLE", `A "quoted" word`, 0}))
	if !strings.Contains(got, `title={A "quoted" word}`) {
		t.Errorf("Serialize = %q", got)
	}
}

func TestMultilingualTitle(t *testing.T) {
	tests := []struct {
		name string
		lang format.Language
		in   []field
		want string
	}{
		{
			name: "swedish title with english abstract",
			lang: format.LanguageEnglish,
			in:   []field{{"TITLE:SV", "Om saker", 0}, {"ABSTRACT:EN", "About things", 0}},
			want: "Om saker (in Swedish with English summary)",
		},
		{
			name: "swedish phrasing",
			lang: format.LanguageSwedish,
			in:   []field{{"TITLE:SV", "Om saker", 0}, {"ABSTRACT:EN", "About things", 0}},
			want: "Om saker (på svenska med engelsk sammanfattning)",
		},
		{
			name: "unset preference uses english phrasing",
			lang: format.LanguageUnset,
			in:   []field{{"TITLE:SV", "Om saker", 0}, {"ABSTRACT:EN", "About things", 0}},
			want: "Om saker (in Swedish with English summary)",
		},
		{
			name: "both titles swedish document",
			in: []field{
				{"TITLE:EN", "English title", 0},
				{"TITLE:SV", "Svensk titel", 0},
				{"SUBTITLE:SV", "med undertitel", 0},
				{"LANGUAGE", "swe", 0},
			},
			want: "Svensk titel: med undertitel [English title]",
		},
		{
			name: "both titles english document",
			in:   []field{{"TITLE:SV", "Svensk titel", 0}, {"TITLE:EN", "English title", 0}},
			want: "English title [Svensk titel]",
		},
		{
			name: "english title of swedish document",
			in: []field{
				{"TITLE:EN", "English title", 0},
				{"LANGUAGE", "Swedish", 0},
				{"ABSTRACT:SV", "Sammanfattning", 0},
			},
			want: "English title (in English with Swedish summary)",
		},
		{
			name: "english title with both abstracts",
			in: []field{
				{"TITLE:EN", "English title", 0},
				{"ABSTRACT:EN", "Abstract", 0},
				{"ABSTRACT:SV", "Sammanfattning", 0},
			},
			want: "English title (with Swedish summary)",
		},
		{
			name: "english title without abstract",
			in:   []field{{"TITLE:EN", "English title", 0}},
			want: "English title",
		},
		{
			name: "short title fallback",
			in:   []field{{"SHORTTITLE", "Short", 0}},
			want: "Short",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := quietOptions()
			opts.Language = tt.lang
			out := build(t, record(tt.in...), opts)
			if got := first(out, "title"); got != tt.want {
				t.Errorf("title = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAnnotationTableComplete(t *testing.T) {
	for _, title := range []titleLanguage{english, swedish} {
		for _, original := range []titleLanguage{english, swedish} {
			for a := noAbstract; a <= bothAbstracts; a++ {
				if _, ok := annotations[titleFacts{title, original, a}]; !ok {
					t.Errorf("no annotation for title %d, original %d, abstracts %d", title, original, a)
				}
			}
		}
	}
}

func TestCombineTitle(t *testing.T) {
	tests := []struct {
		title, sub, want string
	}{
		{"Main", "Sub", "Main: Sub"},
		{"Why?", "Because", "Why? Because"},
		{"Stop!", "Now", "Stop! Now"},
		{"Main", "", "Main"},
		{"", "Sub", "Sub"},
	}
	for _, tt := range tests {
		if got := combineTitle(tt.title, tt.sub); got != tt.want {
			t.Errorf("combineTitle(%q, %q) = %q, want %q", tt.title, tt.sub, got, tt.want)
		}
	}
}

func TestContainerTitles(t *testing.T) {
	in := record(
		field{"GENRE", "book chapter", 0},
		field{"TITLE", "Chapter", 0},
		field{"TITLE:SV", "Boken", 1},
		field{"TITLE:EN", "The Book", 1},
		field{"SHORTTITLE", "Book", 1},
		field{"TITLE", "Series", 2},
	)

	opts := quietOptions()
	opts.Language = format.LanguageSwedish
	out := build(t, in, opts)
	if got := first(out, "bookTitle"); got != "Boken" {
		t.Errorf("bookTitle = %q, want %q", got, "Boken")
	}
	if got := first(out, "series"); got != "Series" {
		t.Errorf("series = %q, want %q", got, "Series")
	}

	opts.ShortTitle = true
	out = build(t, in, opts)
	if got := first(out, "bookTitle"); got != "Book" {
		t.Errorf("short bookTitle = %q, want %q", got, "Book")
	}
}

func TestDescription(t *testing.T) {
	tests := []struct {
		genre, description, tag string
	}{
		{"book", "xii, 345", "pages"},
		{"book", "345", "pages"},
		{"book", "345 s.", "description"},
		{"book", "12 cm, ill.", "description"},
		{"article", "345", "description"},
	}
	for _, tt := range tests {
		in := record(
			field{"GENRE", tt.genre, 0},
			field{"TITLE", "T", 0},
			field{"DESCRIPTION", tt.description, 0},
		)
		out := build(t, in, quietOptions())
		if got := first(out, tt.tag); got != tt.description {
			t.Errorf("%s %q: %s = %q", tt.genre, tt.description, tt.tag, got)
		}
	}
}

func TestDegreeNotes(t *testing.T) {
	tests := []struct {
		name   string
		lang   format.Language
		in     []field
		degree string
		level  string
	}{
		{
			name:   "swedish note translated",
			lang:   format.LanguageEnglish,
			in:     []field{{"NOTES:DEGREE:SV", "Filosofie doktorsexamen", 0}},
			degree: "Degree of Doctor of Philosophy",
		},
		{
			name:  "tex escaped level translated",
			lang:  format.LanguageEnglish,
			in:    []field{{"NOTES:LEVEL:SV", `Sj{\"a}lvst{\"a}ndigt arbete p{\aa} avancerad niv{\aa} (masterexamen)`, 0}},
			level: "Independent thesis Advanced level (degree of Master (Two Years))",
		},
		{
			name: "english preferred",
			lang: format.LanguageEnglish,
			in: []field{
				{"NOTES:DEGREE:SV", "Filosofie doktorsexamen", 0},
				{"NOTES:DEGREE:EN", "Doctoral degree", 0},
			},
			degree: "Doctoral degree",
		},
		{
			name:   "swedish kept for swedish output",
			lang:   format.LanguageSwedish,
			in:     []field{{"NOTES:DEGREE:SV", "Filosofie doktorsexamen", 0}},
			degree: "Filosofie doktorsexamen",
		},
		{
			name:   "english fallback for swedish output",
			lang:   format.LanguageSwedish,
			in:     []field{{"NOTES:DEGREE:EN", "Degree of Doctor of Philosophy", 0}},
			degree: "Degree of Doctor of Philosophy",
		},
		{
			name:   "untagged when unset",
			in:     []field{{"NOTES:DEGREE", "PhD", 0}, {"NOTES:DEGREE:SV", "Filosofie doktorsexamen", 0}},
			degree: "PhD",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := quietOptions()
			opts.Language = tt.lang
			out := build(t, record(tt.in...), opts)
			if got := first(out, "degree"); got != tt.degree {
				t.Errorf("degree = %q, want %q", got, tt.degree)
			}
			if got := first(out, "level"); got != tt.level {
				t.Errorf("level = %q, want %q", got, tt.level)
			}
		})
	}
}

func TestThesisFields(t *testing.T) {
	in := record(
		field{"GENRE", "monographDoctoralThesis", 0},
		field{"TITLE", "A thesis", 0},
		field{"AUTHOR", "Student|Sam", 0},
		field{"THESIS_ADVISOR", "Advisor|Ada", 0},
		field{"THESIS_EXAMINER", "Examiner|Eve", 0},
		field{"THESIS_OPPONENT", "Opponent|Otto", 0},
		field{"THESIS_OTHER:CORP", "Research Group", 0},
		field{"DEGREEGRANTOR:CORP", "KTH", 0},
		field{"NOTES:VENUE", "Room F3", 0},
		field{"NOTES:UNIVERSITYCREDITS", "30 hp", 0},
		field{"PUBLISHER", "KTH Press", 0},
		field{"DIVAPUBLISHER:CORP", "KTH DiVA", 0},
		field{"EVENT", "Defence", 0},
	)
	out := build(t, in, quietOptions())

	want := map[string]string{
		"TYPE":          "PhdThesis",
		"supervisor":    "Advisor, Ada",
		"examiner":      "Examiner, Eve",
		"opponent":      "Opponent, Otto",
		"other":         "{Research Group}",
		"school":        "KTH",
		"venue":         "Room F3",
		"credits":       "30 hp",
		"publisher":     "KTH Press",
		"divapublisher": "KTH DiVA",
		"eventtitle":    "Defence",
	}
	for tag, v := range want {
		if got := first(out, tag); got != v {
			t.Errorf("%s = %q, want %q", tag, got, v)
		}
	}
}

func TestDivaPublisherWithoutPublisher(t *testing.T) {
	out := build(t, record(field{"DIVAPUBLISHER:CORP", "KTH DiVA", 0}), quietOptions())
	if got := values(out, "publisher"); len(got) != 1 || got[0] != "KTH DiVA" {
		t.Errorf("publisher = %q", got)
	}
	if out.Has("divapublisher", fields.LevelAny) {
		t.Error("divapublisher should not be written without a publisher")
	}
}

func TestIssueNumber(t *testing.T) {
	out := build(t, record(field{"ISSUE", "3", 1}, field{"NUMBER", "7", 1}), quietOptions())
	if first(out, "issue") != "3" || first(out, "number") != "7" {
		t.Errorf("issue/number = %q/%q", first(out, "issue"), first(out, "number"))
	}

	out = build(t, record(field{"NUMBER", "7", 1}), quietOptions())
	if first(out, "number") != "7" || out.Has("issue", fields.LevelAny) {
		t.Errorf("number only: issue=%q number=%q", first(out, "issue"), first(out, "number"))
	}
}

func TestPages(t *testing.T) {
	opts := quietOptions()
	opts.SingleDash = true
	out := build(t, record(field{"PAGES:START", "5", 1}, field{"PAGES:STOP", "9", 1}), opts)
	if got := first(out, "pages"); got != "5-9" {
		t.Errorf("pages = %q, want 5-9", got)
	}

	out = build(t, record(field{"PAGES:START", "5", 1}), quietOptions())
	if got := first(out, "pages"); got != "5" {
		t.Errorf("start only pages = %q", got)
	}

	out = build(t, record(field{"ARTICLENUMBER", "e1234", 0}), quietOptions())
	if got := first(out, "pages"); got != "e1234" {
		t.Errorf("article number pages = %q", got)
	}
}

func TestKeywords(t *testing.T) {
	in := []field{
		{"KEYWORD:EN", "networks", 0},
		{"KEYWORD:EN", "radio", 0},
		{"KEYWORD:SV", "nätverk", 0},
		{"KEYWORD", "misc", 0},
	}
	tests := []struct {
		lang format.Language
		want string
	}{
		{format.LanguageEnglish, "networks; radio"},
		{format.LanguageSwedish, "nätverk"},
		{format.LanguageUnset, "misc"},
	}
	for _, tt := range tests {
		opts := quietOptions()
		opts.Language = tt.lang
		out := build(t, record(in...), opts)
		if got := first(out, "keywords"); got != tt.want {
			t.Errorf("language %v: keywords = %q, want %q", tt.lang, got, tt.want)
		}
	}

	opts := quietOptions()
	opts.Language = format.LanguageSwedish
	out := build(t, record(field{"KEYWORD", "only untagged", 0}), opts)
	if got := first(out, "keywords"); got != "only untagged" {
		t.Errorf("untagged fallback = %q", got)
	}
}

func TestLinks(t *testing.T) {
	in := record(
		field{"URL", "http://example.org/a", 0},
		field{"URL", "https://doi.org/10.1/a", 0},
		field{"DOI", "10.1/a", 0},
		field{"PMID", "123", 0},
		field{"PMC", "PMC456", 0},
		field{"JSTOR", "789", 0},
		field{"FILEATTACH", "paper.pdf", 0},
		field{"FILEATTACH", "page.html", 0},
		field{"FILEATTACH", "data.csv", 0},
		field{"ARXIV", "1234.5678", 0},
		field{"EPRINTCLASS", "cs.NI", 0},
	)
	out := build(t, in, quietOptions())

	wantURLs := []string{
		"http://example.org/a",
		"https://doi.org/10.1/a",
		"https://pubmed.ncbi.nlm.nih.gov/123",
		"https://www.ncbi.nlm.nih.gov/pmc/articles/PMC456",
		"https://www.jstor.org/stable/789",
		"https://arxiv.org/abs/1234.5678",
	}
	if got := values(out, "url"); strings.Join(got, " ") != strings.Join(wantURLs, " ") {
		t.Errorf("url = %q\nwant %q", got, wantURLs)
	}
	wantFiles := []string{":paper.pdf:PDF", ":page.html:HTML", ":data.csv:TYPE"}
	if got := values(out, "file"); strings.Join(got, " ") != strings.Join(wantFiles, " ") {
		t.Errorf("file = %q, want %q", got, wantFiles)
	}
	if first(out, "archivePrefix") != "arXiv" || first(out, "eprint") != "1234.5678" {
		t.Errorf("arXiv fields = %q %q", first(out, "archivePrefix"), first(out, "eprint"))
	}
	if got := first(out, "primaryClass"); got != "cs.NI" {
		t.Errorf("primaryClass = %q", got)
	}
}

func TestNoPartialEmission(t *testing.T) {
	saved := outputLimit
	outputLimit = 4
	t.Cleanup(func() { outputLimit = saved })

	// TYPE, REFNUM, author, title, year, volume: the fifth insertion fails.
	tooBig := record(
		field{"REFNUM", "big", 0},
		field{"AUTHOR", "Doe|Jane", 0},
		field{"TITLE", "Big", 0},
		field{"DATE:YEAR", "2020", 0},
		field{"VOLUME", "1", 0},
	)
	small := record(field{"REFNUM", "small", 0}, field{"TITLE", "Small", 0})

	var buf bytes.Buffer
	err := (&Format{}).Serialize(&buf, []*fields.Fields{tooBig, small}, quietOptions())
	if !errors.Is(err, fields.ErrAllocation) {
		t.Fatalf("Serialize error = %v, want ErrAllocation", err)
	}
	got := buf.String()
	if strings.Contains(got, "big") || strings.Contains(got, "Big") {
		t.Errorf("failed record was partly written:\n%s", got)
	}
	if !strings.HasPrefix(got, "@Misc{small,\n") {
		t.Errorf("remaining record missing:\n%s", got)
	}
}

func TestWorkersKeepInputOrder(t *testing.T) {
	var records []*fields.Fields
	for i := range 50 {
		records = append(records, record(
			field{"REFNUM", fmt.Sprintf("key%02d", i), 0},
			field{"TITLE", fmt.Sprintf("Title %d", i), 0},
		))
	}
	opts := quietOptions()
	opts.Workers = 8
	got := serialize(t, opts, records...)

	last := -1
	for i := range 50 {
		pos := strings.Index(got, fmt.Sprintf("@Misc{key%02d,", i))
		if pos == -1 {
			t.Fatalf("record %d missing", i)
		}
		if pos < last {
			t.Fatalf("record %d written out of order", i)
		}
		last = pos
	}
}

func TestUTF8BOM(t *testing.T) {
	opts := quietOptions()
	opts.UTF8BOM = true
	got := serialize(t, opts, record(field{"TITLE", "T", 0}))
	if !strings.HasPrefix(got, "\xef\xbb\xbf@Misc{") {
		t.Errorf("output does not start with a BOM: %q", got)
	}
}

func TestCanParse(t *testing.T) {
	f := &Format{}
	if !f.CanParse([]byte("@article{key,\n title={x}}")) {
		t.Error("should detect BibTeX")
	}
	if f.CanParse([]byte("TY  - JOUR")) {
		t.Error("should not detect RIS")
	}
}
