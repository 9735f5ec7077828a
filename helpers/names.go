package helpers

import (
	"regexp"
	"strings"
)

// Name is a personal name split into its parts.
type Name struct {
	Family string
	Given  []string
	Suffix string
}

var (
	// Suffixes that appear after a name
	suffixes = []string{"Jr.", "Jr", "Sr.", "Sr", "III", "II", "IV", "V", "PhD", "Ph.D.", "MD", "M.D.", "Esq.", "Esq"}

	// Name prefixes (nobiliary particles)
	prefixes = []string{"van", "von", "de", "del", "della", "di", "da", "le", "la", "du", "des", "den", "der", "het", "ter", "ten", "op", "mc", "mac", "o'", "d'", "al-", "el-", "ibn"}

	// Pattern for "Last, First Middle" format
	invertedNameRegex = regexp.MustCompile(`^([^,]+),\s*(.+)$`)
)

// Pack encodes the name as family|given1|given2||suffix, the form stored in
// person fields.
func (n Name) Pack() string {
	var b strings.Builder
	b.WriteString(n.Family)
	for _, g := range n.Given {
		b.WriteByte('|')
		b.WriteString(g)
	}
	if n.Suffix != "" {
		b.WriteString("||")
		b.WriteString(n.Suffix)
	}
	return b.String()
}

// UnpackName decodes a packed person field.
func UnpackName(s string) Name {
	var n Name
	if i := strings.LastIndex(s, "||"); i != -1 {
		n.Suffix = s[i+2:]
		s = s[:i]
	}
	parts := strings.Split(s, "|")
	n.Family = parts[0]
	if len(parts) > 1 {
		n.Given = parts[1:]
	}
	return n
}

// Inverted renders the name as "Family Suffix, Given Given".
func (n Name) Inverted() string {
	var b strings.Builder
	b.WriteString(n.Family)
	if n.Suffix != "" {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(n.Suffix)
	}
	given := strings.Join(n.Given, " ")
	if given != "" {
		if b.Len() > 0 {
			b.WriteString(", ")
		}
		b.WriteString(given)
	}
	return b.String()
}

// ParseName parses an unstructured personal name.
// Handles both "First Middle Last" and "Last, First Middle" formats.
func ParseName(name string) Name {
	name = NormalizeWhitespace(name)
	if name == "" {
		return Name{}
	}

	var result Name

	// Check for inverted format: "Last, First Middle Suffix"
	if matches := invertedNameRegex.FindStringSubmatch(name); matches != nil {
		result.Family = strings.TrimSpace(matches[1])
		rest := strings.TrimSpace(matches[2])
		rest, result.Suffix = extractSuffix(rest)
		if result.Suffix == "" && isSuffix(rest) {
			rest, result.Suffix = "", rest
		}
		result.Given = strings.Fields(rest)
		return result
	}

	// Direct format: "First Middle Prefix Last Suffix"
	name, result.Suffix = extractSuffix(name)
	parts := strings.Fields(name)
	if len(parts) == 1 {
		// Single name - treat as family name
		result.Family = parts[0]
		return result
	}

	// Find where the family name starts (after any prefixes)
	familyStart := len(parts) - 1
	for familyStart > 1 && isPrefix(parts[familyStart-1]) {
		familyStart--
	}
	result.Family = strings.Join(parts[familyStart:], " ")
	result.Given = parts[:familyStart]
	return result
}

// extractSuffix extracts a suffix from a name string.
func extractSuffix(name string) (string, string) {
	for _, suffix := range suffixes {
		// Check with trailing comma (common format)
		if strings.HasSuffix(name, ", "+suffix) {
			return strings.TrimSuffix(name, ", "+suffix), suffix
		}
		if strings.HasSuffix(name, " "+suffix) {
			return strings.TrimSuffix(name, " "+suffix), suffix
		}
	}
	return name, ""
}

func isSuffix(word string) bool {
	for _, suffix := range suffixes {
		if word == suffix {
			return true
		}
	}
	return false
}

// isPrefix checks if a word is a nobiliary particle.
func isPrefix(word string) bool {
	lower := strings.ToLower(word)
	for _, prefix := range prefixes {
		if lower == prefix || lower == strings.TrimSuffix(prefix, "'") {
			return true
		}
	}
	return false
}

// SplitPeople splits a list of people on the word "and". Repeated or
// leading "and"s are skipped.
func SplitPeople(s string) []string {
	var (
		out  []string
		name []string
	)
	flush := func() {
		if len(name) > 0 {
			out = append(out, strings.Join(name, " "))
			name = name[:0]
		}
	}
	for _, tok := range strings.Fields(s) {
		if strings.EqualFold(tok, "and") {
			flush()
			continue
		}
		name = append(name, tok)
	}
	flush()
	return out
}
