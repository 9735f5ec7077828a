package medline

import (
	"fmt"
	"io"
	"strings"

	"github.com/lehigh-university-libraries/bibwalk/fields"
	"github.com/lehigh-university-libraries/bibwalk/format"
	"github.com/lehigh-university-libraries/bibwalk/helpers"
	"github.com/lehigh-university-libraries/bibwalk/xmltree"
)

// Parse reads PubMed XML and returns one store per PubmedArticle. Files of
// bare MedlineCitation elements are accepted too.
func (f *Format) Parse(r io.Reader, opts *format.ParseOptions) ([]*fields.Fields, error) {
	doc, err := xmltree.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing MEDLINE XML: %w", err)
	}

	nodes, err := xmltree.Select(doc, "PubmedArticle")
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		if nodes, err = xmltree.Select(doc, "MedlineCitation"); err != nil {
			return nil, err
		}
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("no <PubmedArticle> or <MedlineCitation> elements found in input")
	}

	records := make([]*fields.Fields, 0, len(nodes))
	for i, n := range nodes {
		info := fields.New()
		if err := convert(n, info); err != nil {
			if err := format.RecordFailed(opts, i, err); err != nil {
				return nil, err
			}
			continue
		}
		format.Dump(opts, i, info)
		records = append(records, info)
	}
	return records, nil
}

// rule maps an element, optionally restricted by an attribute value, to an
// output tag.
type rule struct {
	tag       string
	attr      string
	attrValue string
	out       string
	level     int
}

func (r rule) matches(n *xmltree.Node) bool {
	if n.Tag != r.tag {
		return false
	}
	return r.attr == "" || n.HasAttr(r.attr, r.attrValue)
}

var journalRules = []rule{
	{tag: "Title", out: "TITLE", level: fields.LevelHost},
	{tag: "ISOAbbreviation", out: "SHORTTITLE", level: fields.LevelHost},
	{tag: "ISSN", out: "ISSN", level: fields.LevelHost},
	{tag: "Volume", out: "VOLUME", level: fields.LevelHost},
	{tag: "Issue", out: "ISSUE", level: fields.LevelHost},
	{tag: "Year", out: "PARTDATE:YEAR", level: fields.LevelHost},
	{tag: "Month", out: "PARTDATE:MONTH", level: fields.LevelHost},
	{tag: "Day", out: "PARTDATE:DAY", level: fields.LevelHost},
}

var articleIDRules = []rule{
	{tag: "ArticleId", attr: "IdType", attrValue: "doi", out: "DOI"},
	{tag: "ArticleId", attr: "IdType", attrValue: "pubmed", out: "PMID"},
	{tag: "ArticleId", attr: "IdType", attrValue: "medline", out: "MEDLINE"},
	{tag: "ArticleId", attr: "IdType", attrValue: "pmc", out: "PMC"},
	{tag: "ArticleId", attr: "IdType", attrValue: "pii", out: "PII"},
}

type converter struct {
	f *fields.Fields
}

func (c *converter) add(tag, value string, level int) error {
	if value == "" {
		return nil
	}
	_, err := c.f.Add(tag, value, level)
	return err
}

// apply stores n under the first matching rule and reports whether one matched.
func (c *converter) apply(n *xmltree.Node, rules []rule) (bool, error) {
	if !n.HasValue() {
		return false, nil
	}
	for _, r := range rules {
		if r.matches(n) {
			return true, c.add(r.out, n.Value, r.level)
		}
	}
	return false, nil
}

func convert(n *xmltree.Node, f *fields.Fields) error {
	c := &converter{f: f}

	if n.Is("MedlineCitation") {
		if err := c.citation(n); err != nil {
			return err
		}
	} else {
		for _, child := range n.Children {
			var err error
			switch child.Tag {
			case "MedlineCitation":
				err = c.citation(child)
			case "PubmedData":
				err = c.pubmedData(child)
			}
			if err != nil {
				return err
			}
		}
	}

	if f.Len() == 0 {
		return nil
	}
	trailer := []struct {
		tag, value string
		level      int
	}{
		{"RESOURCE", "text", fields.LevelMain},
		{"ISSUANCE", "continuing", fields.LevelHost},
		{"GENRE", "periodical", fields.LevelHost},
		{"GENRE", "academic journal", fields.LevelHost},
	}
	for _, t := range trailer {
		if err := c.add(t.tag, t.value, t.level); err != nil {
			return err
		}
	}
	return nil
}

func (c *converter) citation(n *xmltree.Node) error {
	for _, child := range n.Children {
		var err error
		switch child.Tag {
		case "PMID":
			err = c.add("PMID", child.Value, fields.LevelMain)
		case "Article":
			err = c.article(child)
		case "MedlineJournalInfo":
			err = c.journalInfo(child)
		case "MeshHeadingList":
			err = c.keywords(child, "MeshHeading", "DescriptorName")
		case "KeywordList":
			err = c.keywords(child, "", "Keyword")
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (c *converter) article(n *xmltree.Node) error {
	for _, child := range n.Children {
		var err error
		switch child.Tag {
		case "Journal":
			err = c.journal(child)
		case "ArticleTitle":
			err = c.add("TITLE", child.Text(), fields.LevelMain)
		case "VernacularTitle":
			err = c.add("TITLE", child.Text(), fields.LevelOriginal)
		case "Pagination":
			err = c.pagination(child)
		case "ELocationID":
			if child.HasAttr("EIdType", "doi") {
				err = c.add("DOI", child.Value, fields.LevelMain)
			}
		case "Abstract":
			if abs := child.Child("AbstractText"); abs != nil {
				err = c.add("ABSTRACT", abs.Text(), fields.LevelMain)
			}
		case "AuthorList":
			err = c.authors(child)
		case "Language":
			err = c.language(child, fields.LevelMain)
		case "Affiliation":
			err = c.add("ADDRESS", child.Value, fields.LevelMain)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// journal handles the Journal element and everything below it; all of it
// describes the host.
func (c *converter) journal(n *xmltree.Node) error {
	return xmltree.Walk(n, func(node *xmltree.Node) error {
		found, err := c.apply(node, journalRules)
		if err != nil || found || !node.HasValue() {
			return err
		}
		switch node.Tag {
		case "MedlineDate":
			return c.medlineDate(node.Value, fields.LevelHost)
		case "Language":
			return c.language(node, fields.LevelHost)
		}
		return nil
	})
}

var medlineDateTags = []string{"PARTDATE:YEAR", "PARTDATE:MONTH", "PARTDATE:DAY"}

// medlineDate handles free-text dates such as "2003 Jan-Feb".
func (c *converter) medlineDate(s string, level int) error {
	for i, part := range helpers.SplitMedlineDate(s) {
		if err := c.add(medlineDateTags[i], part, level); err != nil {
			return err
		}
	}
	return nil
}

func (c *converter) language(n *xmltree.Node, level int) error {
	code := n.Value
	if name, ok := helpers.LanguageName(code); ok {
		return c.add("LANGUAGE", name, level)
	}
	return c.add("LANGUAGE", code, level)
}

func (c *converter) pagination(n *xmltree.Node) error {
	return xmltree.Walk(n, func(node *xmltree.Node) error {
		if !node.Is("MedlinePgn") || !node.HasValue() {
			return nil
		}
		start, end := helpers.SplitPages(node.Value)
		if err := c.add("PAGES:START", start, fields.LevelHost); err != nil {
			return err
		}
		return c.add("PAGES:STOP", end, fields.LevelHost)
	})
}

func (c *converter) authors(n *xmltree.Node) error {
	for _, author := range n.Children {
		if !author.Is("Author") || len(author.Children) == 0 {
			continue
		}

		var name helpers.Name
		var initials string
		for _, part := range author.Children {
			switch part.Tag {
			case "LastName":
				name.Family = part.Value
			case "ForeName", "FirstName":
				name.Given = append(name.Given, strings.Fields(part.Value)...)
			case "Initials":
				initials = part.Value
			case "Suffix":
				name.Suffix = part.Value
			}
		}
		if len(name.Given) == 0 {
			for _, r := range strings.Join(strings.Fields(initials), "") {
				name.Given = append(name.Given, string(r))
			}
		}

		if name.Family != "" || len(name.Given) > 0 {
			if _, err := c.f.AddDup("AUTHOR", name.Pack(), fields.LevelMain); err != nil {
				return err
			}
		} else if corp := author.Child("CollectiveName"); corp.HasValue() {
			if _, err := c.f.AddDup("AUTHOR:CORP", corp.Value, fields.LevelMain); err != nil {
				return err
			}
		}

		for _, info := range author.Children {
			if !info.Is("AffiliationInfo") {
				continue
			}
			if aff := info.Child("Affiliation"); aff.HasValue() {
				if err := c.add("ADDRESS", aff.Value, fields.LevelMain); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// journalInfo uses the MedlineTA abbreviation as the journal title when the
// citation carried none.
func (c *converter) journalInfo(n *xmltree.Node) error {
	return xmltree.Walk(n, func(node *xmltree.Node) error {
		if node.Is("MedlineTA") && node.HasValue() && !c.f.Has("TITLE", fields.LevelHost) {
			return c.add("TITLE", node.Value, fields.LevelHost)
		}
		return nil
	})
}

// keywords adds each term element below n as a KEYWORD. With group set,
// only terms inside group elements are used.
func (c *converter) keywords(n *xmltree.Node, group, term string) error {
	parents := []*xmltree.Node{n}
	if group != "" {
		parents = parents[:0]
		for _, child := range n.Children {
			if child.Is(group) {
				parents = append(parents, child)
			}
		}
	}
	for _, p := range parents {
		for _, child := range p.Children {
			if child.Is(term) && child.HasValue() {
				if err := c.add("KEYWORD", child.Text(), fields.LevelMain); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (c *converter) pubmedData(n *xmltree.Node) error {
	return xmltree.Walk(n, func(node *xmltree.Node) error {
		_, err := c.apply(node, articleIDRules)
		return err
	})
}
