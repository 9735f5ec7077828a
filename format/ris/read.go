package ris

import (
	"bufio"
	"errors"
	"io"
	"log/slog"
	"strings"
)

// entry is one tag and its value as read from the file, before conversion.
type entry struct {
	tag   string
	value string
}

// isTag reports whether line starts with a RIS tag: an uppercase letter, an
// uppercase letter or digit, two spaces and a dash followed by a space or
// the end of the line. A third space before the dash is tolerated.
func isTag(line string) bool {
	if len(line) < 5 {
		return false
	}
	if line[0] < 'A' || line[0] > 'Z' {
		return false
	}
	if !(line[1] >= 'A' && line[1] <= 'Z') && !(line[1] >= '0' && line[1] <= '9') {
		return false
	}
	if line[2] != ' ' || line[3] != ' ' {
		return false
	}
	switch line[4] {
	case '-':
		return len(line) == 5 || line[5] == ' '
	case ' ':
		return len(line) >= 6 && line[5] == '-' && (len(line) == 6 || line[6] == ' ')
	}
	return false
}

func isStartTag(line string) bool {
	return strings.HasPrefix(line, "TY  - ") || strings.HasPrefix(line, "TY   - ")
}

func isEndTag(line string) bool {
	return strings.HasPrefix(line, "ER  -") || strings.HasPrefix(line, "ER   -")
}

// splitTagged returns the tag and the trimmed value of a tagged line.
func splitTagged(line string) (tag, value string) {
	tag = line[:2]
	rest := line[5:]
	if strings.HasPrefix(rest, "-") {
		rest = rest[1:]
	}
	return tag, strings.TrimSpace(rest)
}

// reader splits RIS input into references. A reference runs from a TY line
// to the matching ER line, or to the next TY line or the end of input.
type reader struct {
	logger *slog.Logger

	refs    [][]entry
	current []entry
	inRef   bool
	lastTag string
	added   bool
}

func readReferences(r io.Reader, logger *slog.Logger) ([][]entry, error) {
	rd := &reader{logger: logger}
	br := bufio.NewReader(r)
	for lineNo := 1; ; lineNo++ {
		line, err := br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
		rd.line(strings.TrimRight(line, "\r\n"), lineNo)
		if err != nil {
			break
		}
	}
	rd.finish()
	return rd.refs, nil
}

func (rd *reader) line(line string, lineNo int) {
	line = strings.TrimPrefix(line, "\xef\xbb\xbf")
	if line == "" {
		return
	}

	if isStartTag(line) && rd.inRef {
		rd.finish()
	}
	if isStartTag(line) {
		rd.inRef = true
	}

	switch {
	case isTag(line) && !rd.inRef:
		rd.logger.Warn("tagged line not in properly started reference", "line", lineNo, "ignored", line)
	case isEndTag(line):
		rd.finish()
	case isTag(line):
		tag, value := splitTagged(line)
		rd.lastTag = tag
		rd.added = value != ""
		if rd.added {
			rd.current = append(rd.current, entry{tag: tag, value: value})
		}
	case rd.inRef:
		value := strings.TrimSpace(line)
		if value == "" {
			return
		}
		if rd.added && len(rd.current) > 0 {
			last := &rd.current[len(rd.current)-1]
			last.value += " " + value
			return
		}
		rd.current = append(rd.current, entry{tag: rd.lastTag, value: value})
		rd.added = true
	}
}

func (rd *reader) finish() {
	if len(rd.current) > 0 {
		rd.refs = append(rd.refs, rd.current)
	}
	rd.current = nil
	rd.inRef = false
	rd.lastTag = ""
	rd.added = false
}
