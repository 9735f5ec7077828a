package ris

import (
	"fmt"
	"io"
	"strings"

	"github.com/lehigh-university-libraries/bibwalk/fields"
	"github.com/lehigh-university-libraries/bibwalk/format"
	"github.com/lehigh-university-libraries/bibwalk/helpers"
)

// Parse reads RIS input and returns one store per reference.
func (f *Format) Parse(r io.Reader, opts *format.ParseOptions) ([]*fields.Fields, error) {
	refs, err := readReferences(r, opts.Log())
	if err != nil {
		return nil, fmt.Errorf("reading RIS: %w", err)
	}
	if len(refs) == 0 {
		return nil, fmt.Errorf("no RIS references found in input")
	}

	records := make([]*fields.Fields, 0, len(refs))
	for i, ref := range refs {
		info := fields.New()
		if err := convert(ref, info, i, opts); err != nil {
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

type handler func(f *fields.Fields, value string, r rule) error

var handlers = map[process]handler{
	simple:       addSimple,
	title:        addTitle,
	person:       addPeople,
	serialNumber: addSerialNumber,
	notes:        addNotes,
	link:         addLink,
	date:         addDate,
	doi:          addDOI,
	linkedFile:   addLinkedFile,
}

func convert(ref []entry, f *fields.Fields, n int, opts *format.ParseOptions) error {
	typeName := ""
	for _, e := range ref {
		if e.tag == "TY" {
			typeName = e.value
			break
		}
	}
	typ, ok := lookupType(typeName)
	if !ok {
		opts.Log().Warn("unknown RIS reference type, using "+defaultType,
			"record", n+1, "type", typeName)
	}

	for _, e := range ref {
		if e.tag == "TY" {
			continue
		}
		r, ok := typ.rules[e.tag]
		if !ok {
			if opts != nil && opts.Verbose {
				opts.Log().Info(fmt.Sprintf("Did not identify RIS tag '%s'", e.tag), "record", n+1)
			}
			continue
		}
		if err := handlers[r.process](f, e.value, r); err != nil {
			return fmt.Errorf("tag %s: %w", e.tag, err)
		}
	}

	for _, t := range typ.trailer {
		if _, err := f.Add(t.tag, t.value, t.level); err != nil {
			return err
		}
	}

	if typ.name == "THES" {
		for _, e := range ref {
			if e.tag != "U1" || !isThesisHint(e.value) {
				continue
			}
			if _, err := f.Add("GENRE", e.value, fields.LevelMain); err != nil {
				return err
			}
		}
	}
	return nil
}

func isThesisHint(value string) bool {
	for _, h := range thesisHints {
		if strings.EqualFold(h, value) {
			return true
		}
	}
	return false
}

func addSimple(f *fields.Fields, value string, r rule) error {
	_, err := f.Add(r.out, value, r.level)
	return err
}

// addTitle splits "Title: Subtitle" at the first colon. A question mark
// also ends the main title and is kept with it.
func addTitle(f *fields.Fields, value string, r rule) error {
	base, sub := splitTitle(value)
	subTag := "SUBTITLE"
	if strings.HasPrefix(r.out, "SHORT") {
		subTag = "SHORTSUBTITLE"
	}
	if _, err := f.Add(r.out, base, r.level); err != nil {
		return err
	}
	if sub == "" {
		return nil
	}
	_, err := f.Add(subTag, sub, r.level)
	return err
}

func splitTitle(s string) (base, sub string) {
	i := strings.IndexAny(s, ":?")
	if i == -1 || i == len(s)-1 {
		return s, ""
	}
	if s[i] == '?' {
		base = s[:i+1]
	} else {
		base = strings.TrimSpace(s[:i])
	}
	sub = strings.TrimSpace(s[i+1:])
	if base == "" || sub == "" {
		return s, ""
	}
	return base, sub
}

// addPeople stores each person of an "and"-separated list.
func addPeople(f *fields.Fields, value string, r rule) error {
	for _, p := range helpers.SplitPeople(value) {
		name := helpers.ParseName(p)
		if name.Family == "" && len(name.Given) == 0 {
			continue
		}
		if _, err := f.AddDup(r.out, name.Pack(), r.level); err != nil {
			return err
		}
	}
	return nil
}

// addSerialNumber tells ISBNs from ISSNs by an explicit label or by the
// number of digits.
func addSerialNumber(f *fields.Fields, value string, r rule) error {
	_, err := f.Add(serialTag(value), value, r.level)
	return err
}

func serialTag(value string) string {
	up := strings.ToUpper(value)
	switch {
	case strings.Contains(up, "ISSN"):
		return "ISSN"
	case strings.Contains(up, "ISBN"):
		return "ISBN"
	}
	digits := 0
	for _, c := range up {
		if (c >= '0' && c <= '9') || c == 'X' {
			digits++
		}
	}
	switch digits {
	case 8:
		return "ISSN"
	case 10, 13:
		return "ISBN"
	}
	return "SERIALNUMBER"
}

// addNotes stores links found in notes as links.
func addNotes(f *fields.Fields, value string, r rule) error {
	if isRemote(value) {
		return addLink(f, value, r)
	}
	if i := doiStart(value); i == 0 {
		_, err := f.Add("DOI", value, r.level)
		return err
	}
	_, err := f.Add(r.out, value, r.level)
	return err
}

func addLink(f *fields.Fields, value string, r rule) error {
	tag, v := helpers.SplitURL(value)
	_, err := f.Add(tag, v, r.level)
	return err
}

var datePartTags = []string{"YEAR", "MONTH", "DAY", "OTHER"}

// addDate splits "YYYY/MM/DD/other". Output tags starting with PART store
// PARTDATE fields, the rest DATE fields.
func addDate(f *fields.Fields, value string, r rule) error {
	prefix := "DATE"
	if strings.HasPrefix(strings.ToUpper(r.out), "PART") {
		prefix = "PARTDATE"
	}
	year, month, day, other := helpers.SplitDate(value, '/')
	for i, v := range []string{year, month, day, other} {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, err := f.Add(prefix+":"+datePartTags[i], v, r.level); err != nil {
			return err
		}
	}
	return nil
}

// doiStart returns the index of a "10.<registrant>/" prefix, or -1.
func doiStart(s string) int {
	i := strings.Index(s, "10.")
	if i == -1 || !strings.Contains(s[i:], "/") {
		return -1
	}
	return i
}

// addDOI keeps only the DOI proper, dropping resolver prefixes.
func addDOI(f *fields.Fields, value string, r rule) error {
	i := doiStart(value)
	if i == -1 {
		return nil
	}
	_, err := f.Add("DOI", value[i:], r.level)
	return err
}

var remoteSchemes = []string{"http://", "https://", "ftp://", "git://", "gopher://"}

func isRemote(s string) bool {
	lower := strings.ToLower(s)
	for _, scheme := range remoteSchemes {
		if strings.HasPrefix(lower, scheme) {
			return true
		}
	}
	return false
}

// addLinkedFile stores local files by path and remote ones as URLs.
func addLinkedFile(f *fields.Fields, value string, r rule) error {
	var err error
	switch {
	case strings.HasPrefix(value, "file:"):
		_, err = f.Add(r.out, strings.TrimPrefix(value, "file:"), r.level)
	case isRemote(value):
		_, err = f.Add("URL", value, r.level)
	default:
		_, err = f.Add(r.out, value, r.level)
	}
	return err
}
