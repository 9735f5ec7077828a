package ris

import (
	"maps"
	"strings"

	"github.com/lehigh-university-libraries/bibwalk/fields"
)

// process selects the handler that converts a tag's value.
type process int

const (
	simple process = iota
	title
	person
	serialNumber
	notes
	link
	date
	doi
	linkedFile
)

type rule struct {
	out     string
	level   int
	process process
}

// fixed is a field every reference of a type receives.
type fixed struct {
	tag   string
	value string
	level int
}

type refType struct {
	name    string
	rules   map[string]rule
	trailer []fixed
}

const (
	atMain   = fields.LevelMain
	atHost   = fields.LevelHost
	atSeries = fields.LevelSeries
)

var commonRules = map[string]rule{
	"ID": {"REFNUM", atMain, simple},
	"AU": {"AUTHOR", atMain, person},
	"A1": {"AUTHOR", atMain, person},
	"A2": {"EDITOR", atMain, person},
	"ED": {"EDITOR", atMain, person},
	"A3": {"EDITOR", atSeries, person},
	"A4": {"TRANSLATOR", atMain, person},
	"TI": {"TITLE", atMain, title},
	"T1": {"TITLE", atMain, title},
	"CT": {"TITLE", atMain, title},
	"T2": {"TITLE", atHost, title},
	"T3": {"TITLE", atSeries, title},
	"ST": {"SHORTTITLE", atMain, title},
	"PY": {"DATE", atMain, date},
	"Y1": {"DATE", atMain, date},
	"DA": {"DATE", atMain, date},
	"Y2": {"URLDATE", atMain, simple},
	"VL": {"VOLUME", atMain, simple},
	"IS": {"ISSUE", atMain, simple},
	"SP": {"PAGES:START", atMain, simple},
	"EP": {"PAGES:STOP", atMain, simple},
	"CY": {"ADDRESS", atMain, simple},
	"PB": {"PUBLISHER", atMain, simple},
	"SN": {"SERIALNUMBER", atMain, serialNumber},
	"KW": {"KEYWORD", atMain, simple},
	"N1": {"NOTES", atMain, notes},
	"M1": {"NOTES", atMain, notes},
	"M3": {"NOTES", atMain, notes},
	"U1": {"NOTES", atMain, notes},
	"U2": {"NOTES", atMain, notes},
	"U3": {"NOTES", atMain, notes},
	"U4": {"NOTES", atMain, notes},
	"U5": {"NOTES", atMain, notes},
	"AB": {"ABSTRACT", atMain, simple},
	"N2": {"ABSTRACT", atMain, simple},
	"UR": {"URL", atMain, link},
	"L2": {"URL", atMain, link},
	"L1": {"FILEATTACH", atMain, linkedFile},
	"L4": {"FIGATTACH", atMain, linkedFile},
	"DO": {"DOI", atMain, doi},
	"DI": {"DOI", atMain, doi},
	"LA": {"LANGUAGE", atMain, simple},
	"ET": {"EDITION", atMain, simple},
	"CN": {"CALLNUMBER", atMain, simple},
	"AN": {"ACCESSNUM", atMain, simple},
	"AD": {"ADDRESS:AUTHOR", atMain, simple},
	"DB": {"DATABASE", atMain, simple},
	"RP": {"REPRINTSTATUS", atMain, simple},
}

// journalRules move the periodical's details to the host level.
var journalRules = map[string]rule{
	"JO": {"TITLE", atHost, title},
	"JF": {"TITLE", atHost, title},
	"T2": {"TITLE", atHost, title},
	"JA": {"SHORTTITLE", atHost, title},
	"J1": {"SHORTTITLE", atHost, title},
	"J2": {"SHORTTITLE", atHost, title},
	"PY": {"PARTDATE", atHost, date},
	"Y1": {"PARTDATE", atHost, date},
	"DA": {"PARTDATE", atHost, date},
	"VL": {"VOLUME", atHost, simple},
	"IS": {"ISSUE", atHost, simple},
	"SP": {"PAGES:START", atHost, simple},
	"EP": {"PAGES:STOP", atHost, simple},
	"SN": {"SERIALNUMBER", atHost, serialNumber},
	"PB": {"PUBLISHER", atHost, simple},
	"CY": {"ADDRESS", atHost, simple},
}

// containerRules describe a part of a book or proceedings volume.
var containerRules = map[string]rule{
	"BT": {"TITLE", atHost, title},
	"T2": {"TITLE", atHost, title},
	"T3": {"TITLE", atSeries, title},
	"A2": {"EDITOR", atHost, person},
	"ED": {"EDITOR", atHost, person},
	"PB": {"PUBLISHER", atHost, simple},
	"CY": {"ADDRESS", atHost, simple},
	"SN": {"SERIALNUMBER", atHost, serialNumber},
}

var bookRules = map[string]rule{
	"BT": {"TITLE", atMain, title},
	"T2": {"TITLE", atSeries, title},
}

var thesisRules = map[string]rule{
	"PB": {"SCHOOL", atMain, simple},
	"A3": {"THESIS_ADVISOR", atMain, person},
}

func with(overrides ...map[string]rule) map[string]rule {
	out := maps.Clone(commonRules)
	for _, o := range overrides {
		maps.Copy(out, o)
	}
	return out
}

var (
	textResource       = fixed{"RESOURCE", "text", atMain}
	journalTrailer     = []fixed{textResource, {"ISSUANCE", "continuing", atHost}, {"GENRE", "periodical", atHost}, {"GENRE", "academic journal", atHost}}
	bookTrailer        = []fixed{textResource, {"ISSUANCE", "monographic", atMain}, {"GENRE", "book", atMain}}
	chapterTrailer     = []fixed{textResource, {"GENRE", "book chapter", atMain}, {"ISSUANCE", "monographic", atHost}, {"GENRE", "book", atHost}}
	journalLike        = with(journalRules)
	containedIn        = with(containerRules)
	standalone         = with(bookRules)
	electronicResource = fixed{"RESOURCE", "software, multimedia", atMain}
)

var refTypes = []refType{
	{"JOUR", journalLike, journalTrailer},
	{"EJOUR", journalLike, journalTrailer},
	{"ABST", journalLike, journalTrailer},
	{"INPR", journalLike, journalTrailer},
	{"JFULL", journalLike, []fixed{textResource, {"ISSUANCE", "continuing", atMain}, {"GENRE", "periodical", atMain}}},
	{"MGZN", journalLike, []fixed{textResource, {"ISSUANCE", "continuing", atHost}, {"GENRE", "periodical", atHost}, {"GENRE", "magazine", atHost}}},
	{"NEWS", journalLike, []fixed{textResource, {"ISSUANCE", "continuing", atHost}, {"GENRE", "newspaper", atHost}}},
	{"BOOK", standalone, bookTrailer},
	{"EBOOK", standalone, bookTrailer},
	{"EDBOOK", standalone, bookTrailer},
	{"CHAP", containedIn, chapterTrailer},
	{"ECHAP", containedIn, chapterTrailer},
	{"CONF", standalone, []fixed{textResource, {"GENRE", "conference publication", atMain}}},
	{"CPAPER", containedIn, []fixed{textResource, {"GENRE", "conference publication", atHost}}},
	{"THES", with(thesisRules), []fixed{textResource, {"GENRE", "thesis", atMain}}},
	{"RPRT", standalone, []fixed{textResource, {"GENRE", "report", atMain}}},
	{"PAT", commonRules, []fixed{textResource, {"GENRE", "patent", atMain}}},
	{"UNPB", commonRules, []fixed{textResource, {"GENRE", "unpublished", atMain}}},
	{"MANSCPT", commonRules, []fixed{textResource, {"GENRE", "manuscript", atMain}}},
	{"STAT", commonRules, []fixed{textResource, {"GENRE", "legislation", atMain}}},
	{"BILL", commonRules, []fixed{textResource, {"GENRE", "legislation", atMain}}},
	{"CASE", commonRules, []fixed{textResource, {"GENRE", "legal case and case notes", atMain}}},
	{"HEAR", commonRules, []fixed{textResource, {"GENRE", "hearing", atMain}}},
	{"PCOMM", commonRules, []fixed{textResource, {"GENRE", "communication", atMain}}},
	{"ICOMM", commonRules, []fixed{textResource, {"GENRE", "e-mail communication", atMain}}},
	{"ELEC", commonRules, []fixed{electronicResource, {"GENRE", "electronic", atMain}}},
	{"DATA", commonRules, []fixed{electronicResource, {"GENRE", "database", atMain}}},
	{"COMP", commonRules, []fixed{electronicResource}},
	{"MAP", commonRules, []fixed{{"RESOURCE", "cartographic", atMain}, {"GENRE", "map", atMain}}},
	{"ART", commonRules, []fixed{{"RESOURCE", "still image", atMain}, {"GENRE", "art original", atMain}}},
	{"SLIDE", commonRules, []fixed{{"RESOURCE", "still image", atMain}, {"GENRE", "slide", atMain}}},
	{"MPCT", commonRules, []fixed{{"RESOURCE", "moving image", atMain}, {"GENRE", "motion picture", atMain}}},
	{"VIDEO", commonRules, []fixed{{"RESOURCE", "moving image", atMain}, {"GENRE", "videorecording", atMain}}},
	{"SOUND", commonRules, []fixed{{"RESOURCE", "sound recording", atMain}}},
	{"GEN", commonRules, []fixed{textResource}},
}

const defaultType = "GEN"

// lookupType returns the type named by a TY value. Unknown names return the
// generic type and false.
func lookupType(name string) (refType, bool) {
	name = strings.TrimSpace(name)
	var fallback refType
	for _, t := range refTypes {
		if strings.EqualFold(t.name, name) {
			return t, true
		}
		if t.name == defaultType {
			fallback = t
		}
	}
	return fallback, false
}

// thesisHints are U1 values that name the kind of thesis.
var thesisHints = []string{
	"Ph.D. Thesis",
	"Masters Thesis",
	"Diploma Thesis",
	"Doctoral Thesis",
	"Habilitation Thesis",
}
