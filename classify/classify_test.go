package classify

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/lehigh-university-libraries/bibwalk/fields"
)

type tf struct {
	tag   string
	value string
	level int
}

func store(items ...tf) *fields.Fields {
	f := fields.New()
	for _, it := range items {
		f.AddDup(it.tag, it.value, it.level)
	}
	return f
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		items []tf
		want  Type
	}{
		{"book then thesis", []tf{{"GENRE", "book", 0}, {"GENRE", "thesis", 0}}, Book},
		{"thesis then book", []tf{{"GENRE", "thesis", 0}, {"GENRE", "book", 0}}, Book},
		{"thesis alone", []tf{{"GENRE", "thesis", 0}}, PhdThesis},
		{"later genre overwrites", []tf{{"GENRE", "book", 0}, {"GENRE", "report", 0}}, Report},
		{"conference paper short-circuits", []tf{{"NGENRE", "conferencePaper", 0}, {"GENRE", "book", 0}}, InProceedings},
		{"student thesis short-circuits", []tf{{"NGENRE", "studentThesis", 0}, {"GENRE", "Masters thesis", 0}}, Book},
		{"monograph doctoral thesis", []tf{{"GENRE", "periodical", 1}, {"NGENRE", "monographDoctoralThesis", 0}}, PhdThesis},
		{"book at host level", []tf{{"GENRE", "book", 1}}, InBook},
		{"proceedings", []tf{{"GENRE", "conference publication", 0}}, Proceedings},
		{"in proceedings", []tf{{"GENRE", "conference publication", 1}}, InProceedings},
		{"collection", []tf{{"GENRE", "collection", 0}}, Collection},
		{"in collection", []tf{{"GENRE", "collection", 1}}, InCollection},
		{"journal article", []tf{{"GENRE", "academic journal", 1}}, Article},
		{"case-insensitive", []tf{{"genre", "MAGAZINE", 1}}, Article},
		{"unknown genre ignored", []tf{{"NGENRE", "poster", 0}, {"GENRE", "electronic", 0}}, Electronic},
		{"issuance main", []tf{{"ISSUANCE", "monographic", 0}}, Book},
		{"issuance host", []tf{{"ISSUANCE", "monographic", 1}}, Misc},
		{"genre beats issuance", []tf{{"ISSUANCE", "monographic", 0}, {"GENRE", "report", 0}}, Report},
		{"nested record defaults", []tf{{"TITLE", "x", 1}}, Misc},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(store(tt.items...), 0, nil); got != tt.want {
				t.Errorf("Classify = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClassifyDiagnostic(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	f := store(tf{"REFNUM", "Smith2001", 0}, tf{"TITLE", "x", 0})
	if got := Classify(f, 2, logger); got != Misc {
		t.Fatalf("Classify = %v, want Misc", got)
	}
	out := buf.String()
	for _, want := range []string{"Cannot identify TYPE", "reference=3", "refnum=Smith2001"} {
		if !strings.Contains(out, want) {
			t.Errorf("diagnostic missing %q: %s", want, out)
		}
	}

	buf.Reset()
	Classify(store(tf{"TITLE", "x", 1}), 0, logger)
	if buf.Len() != 0 {
		t.Errorf("nested record should default silently, got %s", buf.String())
	}
}

func TestTypeString(t *testing.T) {
	if Report.String() != "TechReport" || InBook.String() != "Inbook" {
		t.Errorf("unexpected names %q %q", Report, InBook)
	}
}
