package helpers

import "strings"

// MARCRelators maps MARC relator codes to human-readable labels.
// This is a subset of the full MARC relator list, focusing on common scholarly roles.
var MARCRelators = map[string]string{
	// Primary creators
	"aut": "Author",
	"cre": "Creator",
	"edt": "Editor",
	"com": "Compiler",
	"trl": "Translator",
	"ill": "Illustrator",
	"pht": "Photographer",
	"art": "Artist",
	"cmp": "Composer",

	// Contributors
	"ctb": "Contributor",
	"aui": "Author of introduction",
	"aft": "Author of afterword",
	"aud": "Author of dialog",
	"aus": "Screenwriter",
	"ann": "Annotator",
	"cmm": "Commentator",
	"wpr": "Writer of preface",
	"wam": "Writer of accompanying material",

	// Thesis-related
	"ths": "Thesis advisor",
	"dgs": "Degree supervisor",
	"dgc": "Degree committee member",
	"opn": "Opponent",
	"dgg": "Degree granting institution",
	"mon": "Monitor",

	// Publishing
	"pbl": "Publisher",
	"dst": "Distributor",
	"bkd": "Book designer",
	"bkp": "Book producer",
	"prt": "Printer",
	"tyg": "Typographer",

	// Research
	"res": "Researcher",
	"fnd": "Funder",
	"spn": "Sponsor",
	"his": "Host institution",

	// Data and software
	"dtc": "Data contributor",
	"dtm": "Data manager",
	"prg": "Programmer",

	// Performance
	"prf": "Performer",
	"act": "Actor",
	"nrt": "Narrator",
	"sng": "Singer",
	"cnd": "Conductor",
	"drt": "Director",
	"pro": "Producer",

	// Organization
	"org": "Originator",
	"isb": "Issuing body",
	"cph": "Copyright holder",
	"oth": "Other",
	"orm": "Organizer",
	"pth": "Patent holder",

	// Legacy/common
	"col": "Collector",
	"cur": "Curator",
	"own": "Owner",
	"dnr": "Donor",
}

// RelatorCodeFromURI extracts the relator code from a URI like "relators:cre"
func RelatorCodeFromURI(uri string) string {
	// Handle "relators:xxx" format
	if strings.HasPrefix(uri, "relators:") {
		return strings.TrimPrefix(uri, "relators:")
	}

	// Handle full URI like "http://id.loc.gov/vocabulary/relators/aut"
	if strings.Contains(uri, "relators/") {
		parts := strings.Split(uri, "relators/")
		if len(parts) > 1 {
			return strings.TrimSuffix(parts[1], "/")
		}
	}

	// Already just a code
	return uri
}

// RelatorLabel returns the human-readable label for a relator code.
func RelatorLabel(codeOrURI string) string {
	code := strings.ToLower(RelatorCodeFromURI(codeOrURI))

	if label, ok := MARCRelators[code]; ok {
		return label
	}

	// Return the code itself if not found
	return codeOrURI
}

// roleTable maps contributor role terms, as free text or MARC relator codes,
// to canonical person tags. Entries are tried in order.
var roleTable = []struct {
	term string
	tag  string
}{
	{"author", "AUTHOR"},
	{"aut", "AUTHOR"},
	{"aud", "AUTHOR"},
	{"aui", "AUTHOR"},
	{"aus", "AUTHOR"},
	{"creator", "AUTHOR"},
	{"cre", "AUTHOR"},
	{"editor", "EDITOR"},
	{"edt", "EDITOR"},
	{"translator", "TRANSLATOR"},
	{"trl", "TRANSLATOR"},
	{"degree grantor", "DEGREEGRANTOR"},
	{"dgg", "DEGREEGRANTOR"},
	{"organizer of meeting", "ORGANIZER"},
	{"orm", "ORGANIZER"},
	{"patent holder", "ASSIGNEE"},
	{"pth", "ASSIGNEE"},
	{"pbl", "DIVAPUBLISHER"},
	{"ths", "THESIS_ADVISOR"},
	{"mon", "THESIS_EXAMINER"},
	{"oth", "THESIS_OTHER"},
	{"opn", "THESIS_OPPONENT"},
}

// ResolveRole maps a role term to a canonical person tag. The term may hold
// several alternatives separated by '|'; the first table entry matching any
// of them wins. An empty term is an author. Terms not in the table are
// returned unchanged with known set to false.
func ResolveRole(term string) (tag string, known bool) {
	if strings.TrimSpace(term) == "" {
		return "AUTHOR", true
	}
	alts := strings.Split(term, "|")
	for i, a := range alts {
		alts[i] = strings.TrimSpace(RelatorCodeFromURI(strings.TrimSpace(a)))
	}
	for _, r := range roleTable {
		for _, a := range alts {
			if strings.EqualFold(a, r.term) {
				return r.tag, true
			}
		}
	}
	return term, false
}
