package helpers

import "strings"

// urlPrefixes recognize links that carry an identifier. The identifier is
// what follows the prefix.
var urlPrefixes = []struct {
	prefix string
	tag    string
}{
	{"https://doi.org/", "DOI"},
	{"http://doi.org/", "DOI"},
	{"https://dx.doi.org/", "DOI"},
	{"http://dx.doi.org/", "DOI"},
	{"https://pubmed.ncbi.nlm.nih.gov/", "PMID"},
	{"https://www.ncbi.nlm.nih.gov/pubmed/", "PMID"},
	{"http://www.ncbi.nlm.nih.gov/pubmed/", "PMID"},
	{"https://www.ncbi.nlm.nih.gov/pmc/articles/", "PMC"},
	{"http://www.ncbi.nlm.nih.gov/pmc/articles/", "PMC"},
	{"https://arxiv.org/abs/", "ARXIV"},
	{"http://arxiv.org/abs/", "ARXIV"},
	{"https://www.jstor.org/stable/", "JSTOR"},
	{"http://www.jstor.org/stable/", "JSTOR"},
}

// SplitURL classifies a link. Links to DOI, PubMed, PubMed Central, arXiv
// and JSTOR records yield the identifier tag and the bare identifier; any
// other link yields URL and the link unchanged.
func SplitURL(u string) (tag, value string) {
	u = strings.TrimSpace(u)
	for _, p := range urlPrefixes {
		if len(u) > len(p.prefix) && strings.EqualFold(u[:len(p.prefix)], p.prefix) {
			return p.tag, strings.TrimSuffix(u[len(p.prefix):], "/")
		}
	}
	return "URL", u
}
