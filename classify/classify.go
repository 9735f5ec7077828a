// Package classify infers a reference type from the genre and issuance
// fields of a record.
package classify

import (
	"log/slog"
	"strings"

	"github.com/lehigh-university-libraries/bibwalk/fields"
)

// Type is a normalized reference type.
type Type int

const (
	Unknown Type = iota
	Article
	InBook
	InProceedings
	Proceedings
	InCollection
	Collection
	Book
	PhdThesis
	MastersThesis
	Report
	Manual
	Unpublished
	Electronic
	Misc
)

var typeNames = map[Type]string{
	Unknown:       "Unknown",
	Article:       "Article",
	InBook:        "Inbook",
	InProceedings: "InProceedings",
	Proceedings:   "Proceedings",
	InCollection:  "InCollection",
	Collection:    "Collection",
	Book:          "Book",
	PhdThesis:     "PhdThesis",
	MastersThesis: "MastersThesis",
	Report:        "TechReport",
	Manual:        "Manual",
	Unpublished:   "Unpublished",
	Electronic:    "Electronic",
	Misc:          "Misc",
}

// String returns the BibTeX entry name for the type.
func (t Type) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return "Unknown"
}

type action int

const (
	// set overwrites any type inferred so far
	set action = iota
	// stop returns immediately, ignoring later genres
	stop
	// fill only applies while the type is still unknown
	fill
)

type genreRule struct {
	genre  string
	main   Type // type for a genre at level 0
	nested Type // type for a genre at any other level
	action action
}

func rule(genre string, t Type, a action) genreRule {
	return genreRule{genre: genre, main: t, nested: t, action: a}
}

var genreRules = []genreRule{
	rule("periodical", Article, set),
	rule("academic journal", Article, set),
	rule("magazine", Article, set),
	rule("newspaper", Article, set),
	rule("article", Article, set),
	rule("instruction", Manual, set),
	rule("unpublished", Unpublished, set),
	rule("conferencePaper", InProceedings, stop),
	{genre: "conference publication", main: Proceedings, nested: InProceedings},
	{genre: "collection", main: Collection, nested: InCollection},
	rule("report", Report, set),
	rule("book chapter", InBook, set),
	rule("studentThesis", Book, stop),
	rule("monographDoctoralThesis", PhdThesis, stop),
	{genre: "book", main: Book, nested: InBook},
	rule("thesis", PhdThesis, fill),
	rule("Ph.D. thesis", PhdThesis, set),
	rule("Masters thesis", MastersThesis, set),
	rule("electronic", Electronic, set),
	rule("other", Misc, set),
}

func lookupGenre(genre string) (genreRule, bool) {
	for _, r := range genreRules {
		if strings.EqualFold(r.genre, genre) {
			return r, true
		}
	}
	return genreRule{}, false
}

// Classify infers the type of the record in f. GENRE and NGENRE fields are
// scanned in insertion order and a later match overwrites an earlier one,
// except for the few genres that decide the type outright. ISSUANCE is
// consulted only when no genre matched. ref is the zero-based position of
// the record in its input, used in the diagnostic logged when a flat record
// cannot be classified. The store is not modified.
func Classify(f *fields.Fields, ref int, logger *slog.Logger) Type {
	if logger == nil {
		logger = slog.Default()
	}

	t := Unknown
	for i := 0; i < f.Len(); i++ {
		if !f.Match(i, "GENRE", fields.LevelAny) && !f.Match(i, "NGENRE", fields.LevelAny) {
			continue
		}
		r, ok := lookupGenre(f.Value(i))
		if !ok {
			continue
		}
		next := r.nested
		if f.Level(i) == fields.LevelMain {
			next = r.main
		}
		switch r.action {
		case stop:
			return next
		case fill:
			if t == Unknown {
				t = next
			}
		default:
			t = next
		}
	}

	if t == Unknown {
		for _, i := range f.FindAll("ISSUANCE", fields.LevelAny) {
			if !strings.EqualFold(f.Value(i), "monographic") {
				continue
			}
			switch f.Level(i) {
			case fields.LevelMain:
				t = Book
			case fields.LevelHost:
				t = Misc
			}
		}
	}

	if t == Unknown {
		if f.MaxLevel() == 0 {
			refnum := ""
			if n := f.Find("REFNUM", fields.LevelAny); n != -1 {
				refnum = f.Value(n)
			}
			logger.Warn("Cannot identify TYPE in reference (defaulting to @Misc)",
				"reference", ref+1,
				"refnum", refnum,
			)
		}
		t = Misc
	}
	return t
}
