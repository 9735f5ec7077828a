package medline

import (
	"strings"
	"testing"

	"github.com/lehigh-university-libraries/bibwalk/fields"
	"github.com/lehigh-university-libraries/bibwalk/format"
)

const pubmedSample = `<?xml version="1.0" encoding="UTF-8"?>
<PubmedArticleSet>
<PubmedArticle>
  <MedlineCitation Status="MEDLINE" Owner="NLM">
    <PMID Version="1">14523232</PMID>
    <Article PubModel="Print">
      <Journal>
        <ISSN IssnType="Print">0027-8424</ISSN>
        <JournalIssue CitedMedium="Print">
          <Volume>100</Volume>
          <Issue>21</Issue>
          <PubDate><MedlineDate>2003 Jan-Feb</MedlineDate></PubDate>
        </JournalIssue>
        <Title>Proceedings of the National Academy of Sciences</Title>
        <ISOAbbreviation>Proc. Natl. Acad. Sci. U.S.A.</ISOAbbreviation>
      </Journal>
      <ArticleTitle>Mechanism of <i>iron</i> transport.</ArticleTitle>
      <Pagination><MedlinePgn>12111-6</MedlinePgn></Pagination>
      <Abstract>
        <AbstractText>First part.</AbstractText>
        <AbstractText>Second part.</AbstractText>
      </Abstract>
      <AuthorList CompleteYN="Y">
        <Author><LastName>Barondeau</LastName><ForeName>David P</ForeName><Initials>DP</Initials></Author>
        <Author><LastName>Kassmann</LastName><Initials>CJ</Initials>
          <AffiliationInfo><Affiliation>Scripps Research Institute.</Affiliation></AffiliationInfo>
        </Author>
        <Author><CollectiveName>Genome Consortium</CollectiveName></Author>
      </AuthorList>
      <Language>eng</Language>
    </Article>
    <MedlineJournalInfo><MedlineTA>Proc Natl Acad Sci U S A</MedlineTA></MedlineJournalInfo>
    <MeshHeadingList>
      <MeshHeading><DescriptorName MajorTopicYN="N">Biophysics</DescriptorName></MeshHeading>
    </MeshHeadingList>
  </MedlineCitation>
  <PubmedData>
    <ArticleIdList>
      <ArticleId IdType="pubmed">14523232</ArticleId>
      <ArticleId IdType="doi">10.1073/pnas.2133463100</ArticleId>
      <ArticleId IdType="pmc">PMC4833866</ArticleId>
    </ArticleIdList>
  </PubmedData>
</PubmedArticle>
</PubmedArticleSet>`

func parseOne(t *testing.T, in string) *fields.Fields {
	t.Helper()
	f := &Format{}
	recs, err := f.Parse(strings.NewReader(in), format.NewParseOptions())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("got %d records, want 1", len(recs))
	}
	return recs[0]
}

func value(f *fields.Fields, tag string, level int) string {
	if n := f.Find(tag, level); n != -1 {
		return f.Value(n)
	}
	return ""
}

func TestParsePubmedArticle(t *testing.T) {
	rec := parseOne(t, pubmedSample)

	tests := []struct {
		tag   string
		level int
		want  string
	}{
		{"PMID", fields.LevelMain, "14523232"},
		{"TITLE", fields.LevelMain, "Mechanism of iron transport."},
		{"TITLE", fields.LevelHost, "Proceedings of the National Academy of Sciences"},
		{"SHORTTITLE", fields.LevelHost, "Proc. Natl. Acad. Sci. U.S.A."},
		{"ISSN", fields.LevelHost, "0027-8424"},
		{"VOLUME", fields.LevelHost, "100"},
		{"ISSUE", fields.LevelHost, "21"},
		{"PARTDATE:YEAR", fields.LevelHost, "2003"},
		{"PARTDATE:MONTH", fields.LevelHost, "Jan/Feb"},
		{"PAGES:START", fields.LevelHost, "12111"},
		{"PAGES:STOP", fields.LevelHost, "12116"},
		{"ABSTRACT", fields.LevelMain, "First part."},
		{"LANGUAGE", fields.LevelMain, "English"},
		{"KEYWORD", fields.LevelMain, "Biophysics"},
		{"DOI", fields.LevelMain, "10.1073/pnas.2133463100"},
		{"PMC", fields.LevelMain, "PMC4833866"},
		{"ADDRESS", fields.LevelMain, "Scripps Research Institute."},
		{"AUTHOR:CORP", fields.LevelMain, "Genome Consortium"},
		{"RESOURCE", fields.LevelMain, "text"},
		{"ISSUANCE", fields.LevelHost, "continuing"},
	}
	for _, tt := range tests {
		if got := value(rec, tt.tag, tt.level); got != tt.want {
			t.Errorf("%s@%d = %q, want %q", tt.tag, tt.level, got, tt.want)
		}
	}

	var authors []string
	for _, i := range rec.FindAll("AUTHOR", fields.LevelMain) {
		authors = append(authors, rec.Value(i))
	}
	if got := strings.Join(authors, ";"); got != "Barondeau|David|P;Kassmann|C|J" {
		t.Errorf("authors = %q", got)
	}

	if n := len(rec.FindAll("ABSTRACT", fields.LevelAny)); n != 1 {
		t.Errorf("got %d abstracts, want only the first", n)
	}
	if n := len(rec.FindAll("TITLE", fields.LevelHost)); n != 1 {
		t.Errorf("MedlineTA should not add a second journal title, got %d", n)
	}
	if n := len(rec.FindAll("GENRE", fields.LevelHost)); n != 2 {
		t.Errorf("got %d host genres, want 2", n)
	}
}

func TestMedlineTAFallback(t *testing.T) {
	rec := parseOne(t, `<MedlineCitationSet><MedlineCitation>
  <PMID>1</PMID>
  <Article><ArticleTitle>T</ArticleTitle></Article>
  <MedlineJournalInfo><MedlineTA>J Test</MedlineTA></MedlineJournalInfo>
</MedlineCitation></MedlineCitationSet>`)
	if got := value(rec, "TITLE", fields.LevelHost); got != "J Test" {
		t.Errorf("host title = %q, want MedlineTA fallback", got)
	}
}

func TestParseNoRecords(t *testing.T) {
	f := &Format{}
	if _, err := f.Parse(strings.NewReader(`<root/>`), nil); err == nil {
		t.Error("expected an error for input without citations")
	}
}

func TestCanParse(t *testing.T) {
	f := &Format{}
	if !f.CanParse([]byte(`<?xml version="1.0"?><PubmedArticleSet>`)) {
		t.Error("PubmedArticleSet not detected")
	}
	if f.CanParse([]byte("TY  - JOUR")) {
		t.Error("RIS detected as MEDLINE")
	}
}
