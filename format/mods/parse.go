package mods

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/lehigh-university-libraries/bibwalk/fields"
	"github.com/lehigh-university-libraries/bibwalk/format"
	"github.com/lehigh-university-libraries/bibwalk/helpers"
	"github.com/lehigh-university-libraries/bibwalk/xmltree"
)

// Parse reads MODS XML and returns one store per outermost mods element.
// The mods elements may be wrapped in a modsCollection or stand alone.
func (f *Format) Parse(r io.Reader, opts *format.ParseOptions) ([]*fields.Fields, error) {
	doc, err := xmltree.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing MODS XML: %w", err)
	}

	nodes, err := xmltree.Select(doc, "mods")
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("no <mods> elements found in input")
	}

	records := make([]*fields.Fields, 0, len(nodes))
	for i, n := range nodes {
		info := fields.New()
		if err := convert(n, info, opts.Log()); err != nil {
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

func convert(n *xmltree.Node, f *fields.Fields, logger *slog.Logger) error {
	c := &converter{f: f, log: logger}
	if id := n.Attr("ID"); id != "" {
		if err := c.add("REFNUM", id, fields.LevelMain); err != nil {
			return err
		}
	}
	return c.mods(n.Children, fields.LevelMain)
}

type converter struct {
	f   *fields.Fields
	log *slog.Logger
}

func (c *converter) add(tag, value string, level int) error {
	if value == "" {
		return nil
	}
	_, err := c.f.Add(tag, value, level)
	return err
}

func (c *converter) addDup(tag, value string, level int) error {
	if value == "" {
		return nil
	}
	_, err := c.f.AddDup(tag, value, level)
	return err
}

// simpleTags are elements whose own text is stored unchanged.
var simpleTags = map[string]string{
	"bibtex-annote":   "ANNOTE",
	"typeOfResource":  "RESOURCE",
	"tableOfContents": "CONTENTS",
}

// mods converts the children of a mods or relatedItem element.
func (c *converter) mods(nodes []*xmltree.Node, level int) error {
	for _, n := range nodes {
		var err error
		if tag, ok := simpleTags[n.Tag]; ok {
			err = c.add(tag, n.Value, level)
		} else {
			switch n.Tag {
			case "titleInfo":
				err = c.title(n, level)
			case "name":
				err = c.name(n, level)
			case "abstract":
				err = c.abstract(n, level)
			case "note":
				err = c.note(n, level)
			case "recordInfo":
				err = c.recordInfo(n, level)
			case "part":
				err = c.part(n, level)
			case "identifier":
				err = c.identifier(n, level)
			case "originInfo":
				err = c.originInfo(n, level)
			case "language":
				err = c.language(n, level)
			case "genre":
				err = c.add(genreTag(n.Value), n.Value, level)
			case "date":
				err = c.date(n.Value, "DATE", level)
			case "subject":
				err = c.subject(n, level)
			case "classification":
				err = c.classification(n, level)
			case "location":
				err = c.location(n, level)
			case "physicalDescription":
				err = c.description(n, level)
			case "relatedItem":
				err = c.relatedItem(n, level)
			}
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (c *converter) relatedItem(n *xmltree.Node, level int) error {
	switch strings.ToLower(n.Attr("type")) {
	case "host", "series":
		if level >= 0 {
			level++
		}
	case "original":
		level = fields.LevelOriginal
	default:
		return nil
	}
	return c.mods(n.Children, level)
}

func (c *converter) title(n *xmltree.Node, level int) error {
	var titles, parts []string
	var sub strings.Builder
	err := xmltree.Walk(n, func(d *xmltree.Node) error {
		if !d.HasValue() {
			return nil
		}
		switch d.Tag {
		case "title":
			titles = append(titles, d.Value)
		case "subTitle":
			sub.WriteString(d.Value)
		case "partNumber", "partName":
			parts = append(parts, d.Value)
		}
		return nil
	})
	if err != nil {
		return err
	}

	title := strings.Join(titles, " : ")
	if len(parts) > 0 {
		if title != "" {
			title += ". "
		}
		title += strings.Join(parts, ". ")
	}

	titleTag, subTag := "TITLE", "SUBTITLE"
	if n.HasAttr("type", "abbreviated") {
		titleTag, subTag = "SHORTTITLE", "SHORTSUBTITLE"
	}
	suffix := helpers.LangSuffix(n.Attr("lang"))
	if err := c.add(titleTag+suffix, title, level); err != nil {
		return err
	}
	return c.add(subTag+suffix, sub.String(), level)
}

func (c *converter) abstract(n *xmltree.Node, level int) error {
	text := n.Text()
	if helpers.IsHTML(text) {
		text = helpers.StripHTML(text)
	}
	return c.add("ABSTRACT"+helpers.LangSuffix(n.Attr("lang")), text, level)
}

var noteTypes = map[string]string{
	"thesis":            "NOTES:THESIS",
	"venue":             "NOTES:VENUE",
	"universitycredits": "NOTES:UNIVERSITYCREDITS",
	"cooperation":       "NOTES:COOPERATION",
}

func (c *converter) note(n *xmltree.Node, level int) error {
	typ := strings.ToLower(n.Attr("type"))
	if tag, ok := noteTypes[typ]; ok {
		return c.add(tag, n.Value, level)
	}
	suffix := helpers.LangSuffix(n.Attr("lang"))
	switch typ {
	case "level":
		return c.add("NOTES:LEVEL"+suffix, n.Value, level)
	case "degree":
		return c.add("NOTES:DEGREE"+suffix, n.Value, level)
	}
	return c.add("NOTES", n.Value, level)
}

var recordInfoTags = map[string]string{
	"recordOrigin":        "recordOrigin",
	"recordContentSource": "recordContentSource",
	"recordCreationDate":  "recordCreationDate",
	"recordChangeDate":    "recordChangeDate",
}

func (c *converter) recordInfo(n *xmltree.Node, level int) error {
	for _, child := range n.Children {
		if child.Is("recordIdentifier") {
			if c.f.Has("REFNUM", level) {
				continue
			}
			if err := c.add("REFNUM", child.Value, level); err != nil {
				return err
			}
			continue
		}
		if tag, ok := recordInfoTags[child.Tag]; ok {
			if err := c.add(tag, child.Value, level); err != nil {
				return err
			}
		}
	}
	return nil
}

var identifierTags = map[string]string{
	"citekey":       "REFNUM",
	"issn":          "ISSN",
	"coden":         "CODEN",
	"isbn":          "ISBN",
	"doi":           "DOI",
	"url":           "URL",
	"uri":           "URL",
	"pmid":          "PMID",
	"pubmed":        "PMID",
	"medline":       "MEDLINE",
	"pmc":           "PMC",
	"arxiv":         "ARXIV",
	"mrnumber":      "MRNUMBER",
	"pii":           "PII",
	"isi":           "ISIREFNUM",
	"serial number": "SERIALNUMBER",
	"accessnum":     "ACCESSNUM",
	"jstor":         "JSTOR",
	"issue number":  "NUMBER",
}

func (c *converter) identifier(n *xmltree.Node, level int) error {
	tag, ok := identifierTags[strings.ToLower(n.Attr("type"))]
	if !ok {
		return nil
	}
	return c.add(tag, n.Value, level)
}

var dateParts = []string{"YEAR", "MONTH", "DAY"}

// date splits a "YYYY-MM-DD" value into prefix:YEAR, prefix:MONTH and
// prefix:DAY. Missing parts are not stored.
func (c *converter) date(s, prefix string, level int) error {
	if s == "" {
		return nil
	}
	year, month, day, _ := helpers.SplitDate(s, '-')
	for i, v := range []string{year, month, day} {
		if err := c.add(prefix+":"+dateParts[i], v, level); err != nil {
			return err
		}
	}
	return nil
}

func (c *converter) part(n *xmltree.Node, level int) error {
	for _, child := range n.Children {
		var err error
		switch child.Tag {
		case "detail":
			err = c.partDetail(child, level)
		case "extent":
			if child.HasAttr("unit", "page") || child.HasAttr("unit", "pages") {
				err = c.pageExtent(child, level)
			}
		case "date":
			err = c.date(child.Value, "PARTDATE", level)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// partDetail stores detail[type] under the uppercased type, with pages
// going to PAGES:START.
func (c *converter) partDetail(n *xmltree.Node, level int) error {
	typ := n.Attr("type")
	if typ == "" || len(n.Children) == 0 {
		return nil
	}
	var values []string
	for _, child := range n.Children {
		if v := child.Text(); v != "" {
			values = append(values, v)
		}
	}
	tag := strings.ToUpper(typ)
	if tag == "PAGE" {
		tag = "PAGES:START"
	}
	return c.add(tag, strings.Join(values, " "), level)
}

func (c *converter) pageExtent(n *xmltree.Node, level int) error {
	var start, end, total, list string
	err := xmltree.Walk(n, func(d *xmltree.Node) error {
		switch d.Tag {
		case "start":
			start = d.Value
		case "end":
			end = d.Value
		case "total":
			total = d.Value
		case "list":
			list = d.Value
		}
		return nil
	})
	if err != nil {
		return err
	}

	if start == "" && end == "" && list != "" {
		start, end = helpers.SplitPages(list)
	}
	if err := c.add("PAGES:START", start, level); err != nil {
		return err
	}
	if err := c.add("PAGES:STOP", end, level); err != nil {
		return err
	}
	return c.add("PAGES:TOTAL", total, level)
}

func (c *converter) originInfo(n *xmltree.Node, level int) error {
	var publisher, edition, issuance strings.Builder
	for _, child := range n.Children {
		var err error
		switch child.Tag {
		case "dateIssued":
			err = c.date(child.Value, "DATE", level)
		case "publisher":
			publisher.WriteString(child.Value)
		case "edition":
			edition.WriteString(child.Value)
		case "issuance":
			issuance.WriteString(child.Value)
		case "place":
			err = c.place(child, level)
		}
		if err != nil {
			return err
		}
	}
	if err := c.add("PUBLISHER", publisher.String(), level); err != nil {
		return err
	}
	if err := c.add("EDITION", edition.String(), level); err != nil {
		return err
	}
	return c.add("ISSUANCE", issuance.String(), level)
}

func (c *converter) place(n *xmltree.Node, level int) error {
	addressTag := "ADDRESS"
	if n.HasAttr("type", "school") {
		addressTag = "SCHOOL"
	}
	for _, term := range n.Children {
		if !term.Is("placeTerm") || !term.HasValue() {
			continue
		}
		var err error
		switch strings.ToLower(term.Attr("type")) {
		case "code":
			err = c.add("CODEDADDRESS", term.Attr("authority")+"|"+term.Value, level)
		case "text":
			err = c.add(addressTag, term.Value, level)
		default:
			err = c.add("ADDRESS", term.Value, level)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (c *converter) language(n *xmltree.Node, level int) error {
	if err := c.add("LANGUAGE", n.Value, level); err != nil {
		return err
	}
	for _, term := range n.Children {
		if !term.Is("languageTerm") || !term.HasValue() {
			continue
		}
		value := term.Value
		if term.HasAttr("type", "code") {
			switch strings.ToLower(term.Attr("authority")) {
			case "iso639-1", "iso639-2b", "iso639-3":
				if name, ok := helpers.LanguageName(value); ok {
					value = name
				}
			}
		}
		if err := c.add("LANGUAGE", value, level); err != nil {
			return err
		}
	}
	return nil
}

func (c *converter) subject(n *xmltree.Node, level int) error {
	suffix := helpers.LangSuffix(n.Attr("lang"))

	if strings.HasPrefix(strings.ToLower(n.Attr("authority")), "hsv") {
		return xmltree.Walk(n, func(d *xmltree.Node) error {
			if d.Is("topic") {
				return c.add("SUBJECT"+suffix, d.Value, level)
			}
			return nil
		})
	}

	if n.Attr("href") != "" {
		if len(n.Children) == 0 || !n.Children[0].Is("topic") {
			return nil
		}
		topic := n.Children[0]
		degree := topic.Value
		if len(n.Children) > 1 && topic.HasValue() && n.Children[1].HasValue() {
			degree = n.Children[1].Value + ": " + degree
		}
		return c.add("NOTES:DEGREE"+suffix, degree, level)
	}

	return xmltree.Walk(n, func(d *xmltree.Node) error {
		switch {
		case d.Is("topic") && d.HasAttr("class", "primary"):
			return c.add("EPRINTCLASS", d.Value, level)
		case d.Is("topic"), d.Is("geographic"):
			return c.add("KEYWORD"+suffix, d.Value, level)
		}
		return nil
	})
}

func (c *converter) classification(n *xmltree.Node, level int) error {
	if n.HasAttr("authority", "lcc") {
		return c.add("LCC", n.Value, level)
	}
	return c.add("CLASSIFICATION", n.Value, level)
}

func (c *converter) location(n *xmltree.Node, level int) error {
	return xmltree.Walk(n, func(d *xmltree.Node) error {
		if !d.HasValue() {
			return nil
		}
		switch d.Tag {
		case "url":
			if d.HasAttr("access", "raw object") {
				return c.add("FILEATTACH", d.Value, level)
			}
			tag, value := helpers.SplitURL(d.Value)
			return c.add(tag, value, level)
		case "physicalLocation":
			if d.HasAttr("type", "school") {
				return c.add("SCHOOL", d.Value, level)
			}
			return c.add("LOCATION", d.Value, level)
		}
		return nil
	})
}

// description keeps the last extent or note value below physicalDescription.
func (c *converter) description(n *xmltree.Node, level int) error {
	if len(n.Children) == 0 {
		return c.add("DESCRIPTION", n.Value, level)
	}
	var last string
	err := xmltree.Walk(n, func(d *xmltree.Node) error {
		if (d.Is("extent") || d.Is("note")) && d.HasValue() {
			last = d.Value
		}
		return nil
	})
	if err != nil {
		return err
	}
	return c.add("DESCRIPTION", last, level)
}
