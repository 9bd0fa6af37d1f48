package trie

import (
	"strings"
)

const (
	// NgramStart anchors an ngram query at the start of a key path.
	NgramStart = "^"
	// NgramEnd anchors an ngram query at the end of a key path.
	NgramEnd = "$"

	segmentSep = ","
	pathSep    = ";"
)

var segmentEscaper = strings.NewReplacer("%", "%25", ",", "%2C", ";", "%3B")

// joinedTerminals is a flat, searchable copy of every terminal key path:
// ";a,b,c;d,e;" with the Terminal sentinel left out. Non prefix ngram
// queries scan it instead of walking the tree.
type joinedTerminals struct {
	sb strings.Builder
}

func newJoinedTerminals() *joinedTerminals {
	j := &joinedTerminals{}
	j.sb.WriteString(pathSep)
	return j
}

// add appends a path. Callers make sure a path is added once.
func (j *joinedTerminals) add(segments []string) {
	j.sb.WriteString(joinSegments(segments))
	j.sb.WriteString(pathSep)
}

func (j *joinedTerminals) String() string {
	return j.sb.String()
}

// match returns the distinct paths containing the pattern, in the order
// they were added. Paths are returned as segment slices.
func (j *joinedTerminals) match(pattern []string, anchorStart, anchorEnd bool) [][]string {
	haystack := j.sb.String()
	needle := joinSegments(pattern)
	if needle == "" {
		return nil
	}

	var found [][]string
	lastPathStart := -1
	for from := 0; from < len(haystack); {
		idx := strings.Index(haystack[from:], needle)
		if idx < 0 {
			break
		}
		start := from + idx
		end := start + len(needle)
		from = start + 1

		before, after := haystack[start-1], byte(0)
		if end < len(haystack) {
			after = haystack[end]
		}
		// matches must cover whole segments
		if (before != ',' && before != ';') || (after != ',' && after != ';') {
			continue
		}
		if anchorStart && before != ';' {
			continue
		}
		if anchorEnd && after != ';' {
			continue
		}

		pathStart := strings.LastIndex(haystack[:start], pathSep) + 1
		if pathStart == lastPathStart {
			continue
		}
		pathEnd := end + strings.Index(haystack[end:], pathSep)
		lastPathStart = pathStart
		found = append(found, splitSegments(haystack[pathStart:pathEnd]))
	}
	return found
}

func joinSegments(segments []string) string {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = segmentEscaper.Replace(s)
	}
	return strings.Join(escaped, segmentSep)
}

func splitSegments(joined string) []string {
	parts := strings.Split(joined, segmentSep)
	for i, p := range parts {
		if strings.Contains(p, "%") {
			parts[i] = unescapeSegment(p)
		}
	}
	return parts
}

func unescapeSegment(s string) string {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && i+2 < len(s) {
			switch s[i+1 : i+3] {
			case "25":
				sb.WriteByte('%')
				i += 2
				continue
			case "2C":
				sb.WriteByte(',')
				i += 2
				continue
			case "3B":
				sb.WriteByte(';')
				i += 2
				continue
			}
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}

// parseNgram strips the ^ and $ anchors from a pattern.
func parseNgram(pattern []string) (segments []string, anchorStart, anchorEnd bool) {
	segments = pattern
	if len(segments) > 0 && segments[0] == NgramStart {
		anchorStart = true
		segments = segments[1:]
	}
	if len(segments) > 0 && segments[len(segments)-1] == NgramEnd {
		anchorEnd = true
		segments = segments[:len(segments)-1]
	}
	return segments, anchorStart, anchorEnd
}
