package bibtex

import "strings"

// swedishDegrees maps the Swedish degree and thesis level phrases used in
// DiVA records to their English wording.
var swedishDegrees = map[string]string{
	"Filosofie doktorsexamen":     "Degree of Doctor of Philosophy",
	"Teknologie doktorsexamen":    "Degree of Doctor of Philosophy",
	"Medicine doktorsexamen":      "Degree of Doctor of Medical Science",
	"Ekonomie doktorsexamen":      "Degree of Doctor of Philosophy",
	"Konstnärlig doktorsexamen":   "Degree of Doctor of Philosophy in Fine Arts",
	"Filosofie licentiatexamen":   "Degree of Licentiate of Philosophy",
	"Teknologie licentiatexamen":  "Degree of Licentiate of Engineering",
	"Medicine licentiatexamen":    "Degree of Licentiate of Medical Science",
	"Ekonomie licentiatexamen":    "Degree of Licentiate of Philosophy",
	"Konstnärlig licentiatexamen": "Degree of Licentiate of Philosophy in Fine Arts",
	"Masterexamen":                "Degree of Master (Two Years)",
	"Magisterexamen":              "Degree of Master (One Year)",
	"Kandidatexamen":              "Degree of Bachelor",
	"Högskoleexamen":              "University Diploma",
	"Civilingenjörsexamen":        "Degree of Master of Science in Engineering",
	"Högskoleingenjörsexamen":     "Degree of Bachelor of Science in Engineering",
	"Arkitektexamen":              "Degree of Master of Architecture",
	"Yrkesexamen":                 "Professional qualification",

	"Självständigt arbete på avancerad nivå (masterexamen)":   "Independent thesis Advanced level (degree of Master (Two Years))",
	"Självständigt arbete på avancerad nivå (magisterexamen)": "Independent thesis Advanced level (degree of Master (One Year))",
	"Självständigt arbete på avancerad nivå (yrkesexamen)":    "Independent thesis Advanced level (professional degree)",
	"Självständigt arbete på grundnivå (kandidatexamen)":      "Independent thesis Basic level (degree of Bachelor)",
	"Självständigt arbete på grundnivå (högskoleexamen)":      "Independent thesis Basic level (university diploma)",
	"Självständigt arbete på grundnivå (yrkesexamen)":         "Independent thesis Basic level (professional degree)",
}

// texAccents spells Swedish letters the way older LaTeX-escaped records do.
var texAccents = strings.NewReplacer(
	"å", `{\aa}`,
	"ä", `{\"a}`,
	"ö", `{\"o}`,
	"Å", `{\AA}`,
	"Ä", `{\"A}`,
	"Ö", `{\"O}`,
)

// degreeTranslations holds every phrase of swedishDegrees in both its plain
// and its TeX-escaped spelling.
var degreeTranslations = func() map[string]string {
	m := make(map[string]string, 2*len(swedishDegrees))
	for sv, en := range swedishDegrees {
		m[sv] = en
		m[texAccents.Replace(sv)] = en
	}
	return m
}()

// translateDegree returns the English wording of a Swedish degree or level
// phrase. Unknown phrases are returned unchanged.
func translateDegree(s string) string {
	if en, ok := degreeTranslations[strings.TrimSpace(s)]; ok {
		return en
	}
	return s
}
