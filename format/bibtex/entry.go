package bibtex

import (
	"strings"

	"github.com/lehigh-university-libraries/bibwalk/classify"
	"github.com/lehigh-university-libraries/bibwalk/fields"
	"github.com/lehigh-university-libraries/bibwalk/format"
	"github.com/lehigh-university-libraries/bibwalk/helpers"
)

// builder fills an output store from an input record. The first failed
// insertion is kept in err and every later step becomes a no-op.
type builder struct {
	in   *fields.Fields
	out  *fields.Fields
	opts *format.SerializeOptions
	typ  classify.Type
	err  error
}

// buildEntry converts the n-th record to a BibTeX output store: TYPE, then
// REFNUM, then the lowercase BibTeX fields in emission order.
func buildEntry(in *fields.Fields, n int, opts *format.SerializeOptions) (*fields.Fields, error) {
	b := &builder{
		in:   in,
		out:  fields.New(fields.WithLimit(outputLimit)),
		opts: opts,
		typ:  classify.Classify(in, n, opts.Log()),
	}

	b.add("TYPE", b.typ.String())
	b.citationKey()
	b.people("author", fields.LevelMain, "AUTHOR", "AUTHOR:CORP", "AUTHOR:ASIS")
	b.people("editor", fields.LevelAny, "EDITOR", "EDITOR:CORP", "EDITOR:ASIS")
	b.people("translator", fields.LevelAny, "TRANSLATOR", "TRANSLATOR:CORP", "TRANSLATOR:ASIS")
	b.titles()
	b.date()
	b.simple("EDITION", "edition")
	b.simple("PUBLISHER", "publisher")
	b.simple("PUBLISHER:CORP", "publisher")
	b.divaPublisher()
	b.people("supervisor", fields.LevelMain, "THESIS_ADVISOR")
	b.people("examiner", fields.LevelMain, "THESIS_EXAMINER")
	b.people("other", fields.LevelMain, "THESIS_OTHER:CORP")
	b.people("opponent", fields.LevelMain, "THESIS_OPPONENT")
	b.simple("ADDRESS", "address")
	b.simple("VOLUME", "volume")
	b.issueNumber()
	b.pages()
	b.keywords()
	b.simple("CONTENTS", "contents")
	b.simple("LOCATION", "location")
	b.simple("DEGREEGRANTOR", "school")
	b.simple("DEGREEGRANTOR:ASIS", "school")
	b.simple("DEGREEGRANTOR:CORP", "school")
	b.simple("NOTES:THESIS", "note_thesis")
	b.simple("NOTES:VENUE", "venue")
	b.simple("NOTES:UNIVERSITYCREDITS", "credits")
	b.bilingual("NOTES:DEGREE", "degree", true)
	b.bilingual("NOTES:LEVEL", "level", true)
	b.bilingual("ABSTRACT", "abstract", false)
	b.simpleAll("NOTES", "note")
	b.simpleAll("ANNOTE", "annote")
	b.simple("ISBN", "isbn")
	b.simple("ISSN", "issn")
	b.simple("MRNUMBER", "mrnumber")
	b.simple("CODEN", "coden")
	b.simple("DOI", "doi")
	b.urls()
	b.fileAttachments()
	b.arxiv()
	b.simple("EPRINTCLASS", "primaryClass")
	b.isi()
	b.simple("LANGUAGE", "language")
	b.simple("EVENT", "eventtitle")
	b.description()

	if b.err != nil {
		return nil, b.err
	}
	return b.out, nil
}

func (b *builder) add(tag, value string) {
	if b.err != nil {
		return
	}
	_, b.err = b.out.Add(tag, value, fields.LevelMain)
}

// use marks input field n used and returns its value.
func (b *builder) use(n int) string {
	b.in.MarkUsed(n)
	return b.in.Value(n)
}

func (b *builder) simple(inTag, outTag string) {
	if n := b.in.Find(inTag, fields.LevelAny); n != -1 {
		b.add(outTag, b.use(n))
	}
}

func (b *builder) simpleAll(inTag, outTag string) {
	for _, n := range b.in.FindAll(inTag, fields.LevelAny) {
		b.add(outTag, b.use(n))
	}
}

// citationKey derives the key from REFNUM up to the first '|'. Strict keys
// keep ASCII letters and digits; otherwise spaces and tabs are dropped.
func (b *builder) citationKey() {
	n := b.in.Find("REFNUM", fields.LevelAny)
	if n == -1 || b.opts.DropKey {
		b.add("REFNUM", "")
		return
	}
	b.add("REFNUM", citationKey(b.use(n), b.opts.StrictKey))
}

func citationKey(refnum string, strict bool) string {
	if i := strings.IndexByte(refnum, '|'); i != -1 {
		refnum = refnum[:i]
	}
	var sb strings.Builder
	for i := 0; i < len(refnum); i++ {
		c := refnum[i]
		if strict {
			if (c >= '0' && c <= '9') || (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') {
				sb.WriteByte(c)
			}
			continue
		}
		if c != ' ' && c != '\t' {
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

// people joins every name stored under tags at level into one field.
// Corporate and as-is names are braced; personal names are inverted.
func (b *builder) people(bibtag string, level int, tags ...string) {
	sep := "\nand "
	if b.opts.Whitespace {
		sep = "\n\t\tand "
	}

	var names []string
	for i := 0; i < b.in.Len(); i++ {
		for _, tag := range tags {
			if !b.in.Match(i, tag, level) {
				continue
			}
			v := b.use(i)
			if isLiteralName(tag) {
				names = append(names, "{"+v+"}")
			} else {
				names = append(names, helpers.UnpackName(v).Inverted())
			}
			break
		}
	}
	if len(names) > 0 {
		b.add(bibtag, strings.Join(names, sep))
	}
}

func isLiteralName(tag string) bool {
	return strings.HasSuffix(tag, ":CORP") || strings.HasSuffix(tag, ":ASIS")
}

// titles writes the record title and the container titles the entry type
// calls for.
func (b *builder) titles() {
	b.mainTitle()

	switch b.typ {
	case classify.Article:
		b.title("journal", fields.LevelHost)
	case classify.InBook:
		b.title("bookTitle", fields.LevelHost)
		b.title("series", fields.LevelSeries)
	case classify.InCollection, classify.InProceedings:
		b.title("booktitle", fields.LevelHost)
		b.title("series", fields.LevelSeries)
	case classify.PhdThesis, classify.MastersThesis:
		b.title("series", fields.LevelHost)
	case classify.Book, classify.Report, classify.Collection, classify.Proceedings:
		b.title("series", fields.LevelHost)
		b.title("series", fields.LevelSeries)
	}
}

var dateParts = []struct {
	part string
	tag  string
}{
	{"YEAR", "year"},
	{"MONTH", "month"},
	{"DAY", "day"},
}

// date prefers DATE:* over PARTDATE:* for each part.
func (b *builder) date() {
	for _, p := range dateParts {
		n := b.in.Find("DATE:"+p.part, fields.LevelAny)
		if n == -1 {
			n = b.in.Find("PARTDATE:"+p.part, fields.LevelAny)
		}
		if n == -1 {
			continue
		}
		v := b.use(n)
		if p.part == "MONTH" {
			v = helpers.MonthName(v)
		}
		b.add(p.tag, v)
	}
}

// divaPublisher writes the archive's publisher, as the publisher when the
// record has none of its own.
func (b *builder) divaPublisher() {
	n := b.in.Find("DIVAPUBLISHER:CORP", fields.LevelAny)
	if n == -1 {
		return
	}
	if b.in.Has("PUBLISHER", fields.LevelAny) {
		b.add("divapublisher", b.use(n))
		return
	}
	b.add("publisher", b.use(n))
}

// issueNumber keeps issue and number apart only when both are present; a
// lone one is written as number.
func (b *builder) issueNumber() {
	issue := b.in.Find("ISSUE", fields.LevelAny)
	number := b.in.Find("NUMBER", fields.LevelAny)
	switch {
	case issue != -1 && number != -1:
		b.add("issue", b.use(issue))
		b.add("number", b.use(number))
	case issue != -1:
		b.add("number", b.use(issue))
	case number != -1:
		b.add("number", b.use(number))
	}
}

func (b *builder) pages() {
	start := b.in.Find("PAGES:START", fields.LevelAny)
	stop := b.in.Find("PAGES:STOP", fields.LevelAny)
	if start == -1 && stop == -1 {
		b.simple("ARTICLENUMBER", "pages")
		return
	}

	var sb strings.Builder
	if start != -1 {
		sb.WriteString(b.use(start))
	}
	if start != -1 && stop != -1 {
		if b.opts.SingleDash {
			sb.WriteString("-")
		} else {
			sb.WriteString("--")
		}
	}
	if stop != -1 {
		sb.WriteString(b.use(stop))
	}
	b.add("pages", sb.String())
}

// keywords joins the keywords in the preferred language. Untagged keywords
// are used when there are none in that language.
func (b *builder) keywords() {
	var idx []int
	switch b.opts.Language {
	case format.LanguageEnglish:
		idx = b.in.FindAll("KEYWORD:EN", fields.LevelAny)
	case format.LanguageSwedish:
		idx = b.in.FindAll("KEYWORD:SV", fields.LevelAny)
	}
	if len(idx) == 0 {
		idx = b.in.FindAll("KEYWORD", fields.LevelAny)
	}
	if len(idx) == 0 {
		return
	}
	words := make([]string, len(idx))
	for i, n := range idx {
		words[i] = b.use(n)
	}
	b.add("keywords", strings.Join(words, "; "))
}

// languageSuffixes is the lookup order of the language variants of a tag.
// Untagged values come last when a language is preferred.
func (b *builder) languageSuffixes() []string {
	switch b.opts.Language {
	case format.LanguageEnglish:
		return []string{":EN", ":SV", ""}
	case format.LanguageSwedish:
		return []string{":SV", ":EN", ""}
	}
	return []string{"", ":EN", ":SV"}
}

// bilingual writes every value of the first language variant of inTag that
// exists. With translate set, Swedish degree phrases standing in for
// missing English ones are translated.
func (b *builder) bilingual(inTag, outTag string, translate bool) {
	for _, suffix := range b.languageSuffixes() {
		idx := b.in.FindAll(inTag+suffix, fields.LevelAny)
		if len(idx) == 0 {
			continue
		}
		for _, n := range idx {
			v := b.use(n)
			if translate && suffix == ":SV" && b.opts.Language == format.LanguageEnglish {
				v = translateDegree(v)
			}
			b.add(outTag, v)
		}
		return
	}
}

var urlPrefixes = []struct {
	tag    string
	prefix string
}{
	{"URL", ""},
	{"DOI", "https://doi.org/"},
	{"PMID", "https://pubmed.ncbi.nlm.nih.gov/"},
	{"PMC", "https://www.ncbi.nlm.nih.gov/pmc/articles/"},
	{"JSTOR", "https://www.jstor.org/stable/"},
}

// urls writes links and resolvable identifiers as url fields. Identical
// links are written once.
func (b *builder) urls() {
	for _, p := range urlPrefixes {
		for _, n := range b.in.FindAll(p.tag, fields.LevelAny) {
			v := strings.TrimSpace(b.in.Value(n))
			if v == "" {
				continue
			}
			if p.tag == "URL" {
				b.in.MarkUsed(n)
			} else if !strings.Contains(v, "://") {
				v = p.prefix + v
			}
			b.add("url", v)
		}
	}
}

func (b *builder) fileAttachments() {
	for _, n := range b.in.FindAll("FILEATTACH", fields.LevelAny) {
		v := b.use(n)
		kind := "TYPE"
		switch {
		case strings.Contains(v, ".pdf"):
			kind = "PDF"
		case strings.Contains(v, ".html"):
			kind = "HTML"
		}
		b.add("file", ":"+v+":"+kind)
	}
}

func (b *builder) arxiv() {
	n := b.in.Find("ARXIV", fields.LevelAny)
	if n == -1 {
		return
	}
	id := b.use(n)
	b.add("archivePrefix", "arXiv")
	b.add("eprint", id)
	if id != "" {
		b.add("url", "https://arxiv.org/abs/"+id)
	}
}

func (b *builder) isi() {
	if n := b.in.Find("ISIREFNUM", fields.LevelAny); n != -1 {
		b.add("note", b.use(n))
	}
}

// description writes the physical description. For books a page count
// such as "345" or "xii, 345" is written as pages instead.
func (b *builder) description() {
	n := b.in.Find("DESCRIPTION", fields.LevelAny)
	if n == -1 {
		return
	}
	v := b.use(n)
	if b.typ == classify.Book && isPageCount(v) {
		b.add("pages", v)
		return
	}
	b.add("description", v)
}

func isPageCount(s string) bool {
	front, _, found := strings.Cut(s, ",")
	if !found {
		return helpers.IsArabic(s)
	}
	return helpers.RomanValue(strings.TrimSpace(front)) > 0
}
