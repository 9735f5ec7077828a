package helpers

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// ISO 639-2/B codes that differ from their terminology counterparts.
var bibliographicCodes = map[string]string{
	"alb": "sqi", "arm": "hye", "baq": "eus", "bur": "mya", "chi": "zho",
	"cze": "ces", "dut": "nld", "fre": "fra", "geo": "kat", "ger": "deu",
	"gre": "ell", "ice": "isl", "mac": "mkd", "mao": "mri", "may": "msa",
	"per": "fas", "rum": "ron", "slo": "slk", "tib": "bod", "wel": "cym",
}

var englishNames = display.English.Languages()

// LanguageName resolves an ISO 639-1, 639-2 or 639-3 code to its English
// language name.
func LanguageName(code string) (string, bool) {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return "", false
	}
	if t, ok := bibliographicCodes[code]; ok {
		code = t
	}
	base, err := language.ParseBase(code)
	if err != nil {
		return "", false
	}
	name := englishNames.Name(base)
	if name == "" {
		return "", false
	}
	return name, true
}

// IsEnglish reports whether a language code or name denotes English.
func IsEnglish(code string) bool {
	return isLanguage(code, "English")
}

// IsSwedish reports whether a language code or name denotes Swedish.
func IsSwedish(code string) bool {
	return isLanguage(code, "Swedish")
}

func isLanguage(code, name string) bool {
	if strings.EqualFold(strings.TrimSpace(code), name) {
		return true
	}
	resolved, ok := LanguageName(code)
	return ok && resolved == name
}

// LangSuffix returns the tag suffix for a language code: ":EN", ":SV" or "".
func LangSuffix(code string) string {
	switch {
	case code == "":
		return ""
	case IsEnglish(code):
		return ":EN"
	case IsSwedish(code):
		return ":SV"
	}
	return ""
}
