package bibtex

import (
	"strings"

	"github.com/lehigh-university-libraries/bibwalk/fields"
	"github.com/lehigh-university-libraries/bibwalk/format"
	"github.com/lehigh-university-libraries/bibwalk/helpers"
)

// titleLanguage is a language a DiVA title or abstract can be tagged with.
type titleLanguage int

const (
	english titleLanguage = iota
	swedish
)

func (l titleLanguage) other() titleLanguage {
	if l == english {
		return swedish
	}
	return english
}

func (l titleLanguage) suffix() string {
	if l == english {
		return ":EN"
	}
	return ":SV"
}

type abstractLanguages int

const (
	noAbstract abstractLanguages = iota
	englishAbstract
	swedishAbstract
	bothAbstracts
)

// annotation is the parenthetical note added to a title that exists in one
// language only.
type annotation int

const (
	noAnnotation annotation = iota
	inLanguage
	withSummary
	inLanguageWithSummary
)

type titleFacts struct {
	title     titleLanguage
	original  titleLanguage
	abstracts abstractLanguages
}

// annotations covers every single-language title. "in <title language>"
// is added when the title is not in the document's language, "with <other
// language> summary" when an abstract exists in the other language.
var annotations = map[titleFacts]annotation{
	{english, english, noAbstract}:      noAnnotation,
	{english, english, englishAbstract}: noAnnotation,
	{english, english, swedishAbstract}: withSummary,
	{english, english, bothAbstracts}:   withSummary,
	{english, swedish, noAbstract}:      inLanguage,
	{english, swedish, englishAbstract}: inLanguage,
	{english, swedish, swedishAbstract}: inLanguageWithSummary,
	{english, swedish, bothAbstracts}:   inLanguageWithSummary,
	{swedish, swedish, noAbstract}:      noAnnotation,
	{swedish, swedish, swedishAbstract}: noAnnotation,
	{swedish, swedish, englishAbstract}: withSummary,
	{swedish, swedish, bothAbstracts}:   withSummary,
	{swedish, english, noAbstract}:      inLanguage,
	{swedish, english, swedishAbstract}: inLanguage,
	{swedish, english, englishAbstract}: inLanguageWithSummary,
	{swedish, english, bothAbstracts}:   inLanguageWithSummary,
}

type phrasing struct {
	in   map[titleLanguage]string
	with map[titleLanguage]string
}

var englishPhrasing = phrasing{
	in:   map[titleLanguage]string{english: "in English", swedish: "in Swedish"},
	with: map[titleLanguage]string{english: "with English summary", swedish: "with Swedish summary"},
}

var swedishPhrasing = phrasing{
	in:   map[titleLanguage]string{english: "på engelska", swedish: "på svenska"},
	with: map[titleLanguage]string{english: "med engelsk sammanfattning", swedish: "med svensk sammanfattning"},
}

// text renders an annotation for a title in language l. The summary is
// always in the other language.
func (p phrasing) text(a annotation, l titleLanguage) string {
	switch a {
	case inLanguage:
		return "(" + p.in[l] + ")"
	case withSummary:
		return "(" + p.with[l.other()] + ")"
	case inLanguageWithSummary:
		return "(" + p.in[l] + " " + p.with[l.other()] + ")"
	}
	return ""
}

func phrasingFor(lang format.Language) phrasing {
	if lang == format.LanguageSwedish {
		return swedishPhrasing
	}
	return englishPhrasing
}

// combineTitle joins a title and subtitle with ": ", or with a space when
// the title already ends in a question or exclamation mark.
func combineTitle(title, sub string) string {
	switch {
	case sub == "":
		return title
	case title == "":
		return sub
	case strings.HasSuffix(title, "?") || strings.HasSuffix(title, "!"):
		return title + " " + sub
	}
	return title + ": " + sub
}

// fullTitle returns the combined title stored under the given title and
// subtitle tags at level, marking both used.
func (b *builder) fullTitle(titleTag, subTag string, level int) (string, bool) {
	n := b.in.Find(titleTag, level)
	if n == -1 {
		return "", false
	}
	title := b.use(n)
	sub := ""
	if s := b.in.Find(subTag, level); s != -1 {
		sub = b.use(s)
	}
	return combineTitle(title, sub), true
}

// documentLanguage reads the record's language. Anything but Swedish counts
// as English.
func (b *builder) documentLanguage() titleLanguage {
	if n := b.in.Find("LANGUAGE", fields.LevelMain); n != -1 && helpers.IsSwedish(b.in.Value(n)) {
		return swedish
	}
	return english
}

func (b *builder) abstractLanguages() abstractLanguages {
	en := b.in.Has("ABSTRACT:EN", fields.LevelAny)
	sv := b.in.Has("ABSTRACT:SV", fields.LevelAny)
	switch {
	case en && sv:
		return bothAbstracts
	case en:
		return englishAbstract
	case sv:
		return swedishAbstract
	}
	return noAbstract
}

// mainTitle writes the record's own title. With both an English and a
// Swedish title the one in the document's language leads and the other
// follows in brackets. A title in one language only may get an annotation.
// Untagged and short titles are the fallbacks.
func (b *builder) mainTitle() {
	titles := map[titleLanguage]string{}
	for _, l := range []titleLanguage{english, swedish} {
		if t, ok := b.fullTitle("TITLE"+l.suffix(), "SUBTITLE"+l.suffix(), fields.LevelMain); ok && t != "" {
			titles[l] = t
		}
	}

	original := b.documentLanguage()
	switch len(titles) {
	case 2:
		b.add("title", titles[original]+" ["+titles[original.other()]+"]")
		return
	case 1:
		for l, t := range titles {
			facts := titleFacts{title: l, original: original, abstracts: b.abstractLanguages()}
			if note := phrasingFor(b.opts.Language).text(annotations[facts], l); note != "" {
				t += " " + note
			}
			b.add("title", t)
		}
		return
	}

	if t, ok := b.fullTitle("TITLE", "SUBTITLE", fields.LevelMain); ok && t != "" {
		b.add("title", t)
		return
	}
	if t, ok := b.fullTitle("SHORTTITLE", "SHORTSUBTITLE", fields.LevelMain); ok && t != "" {
		b.add("title", t)
	}
}

// title writes the title found at a container level, trying the language
// variants in preference order, then the short title. The short-title
// option puts the short title first for host titles.
func (b *builder) title(bibtag string, level int) {
	if b.opts.ShortTitle && level == fields.LevelHost {
		if t, ok := b.fullTitle("SHORTTITLE", "SHORTSUBTITLE", level); ok {
			b.addNonEmpty(bibtag, t)
			return
		}
	}
	for _, suffix := range b.languageSuffixes() {
		if t, ok := b.fullTitle("TITLE"+suffix, "SUBTITLE"+suffix, level); ok {
			b.addNonEmpty(bibtag, t)
			return
		}
	}
	if t, ok := b.fullTitle("SHORTTITLE", "SHORTSUBTITLE", level); ok {
		b.addNonEmpty(bibtag, t)
	}
}

func (b *builder) addNonEmpty(tag, value string) {
	if value != "" {
		b.add(tag, value)
	}
}
