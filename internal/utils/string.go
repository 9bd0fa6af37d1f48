package utils

import (
	"strconv"
	"strings"
)

// FormatWithCommas renders n with thousands separators: 1234567 -> 1,234,567.
func FormatWithCommas(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	if len(s) <= 3 {
		if neg {
			return "-" + s
		}
		return s
	}

	var sb strings.Builder
	if neg {
		sb.WriteByte('-')
	}
	lead := len(s) % 3
	if lead > 0 {
		sb.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if sb.Len() > 0 && !(neg && sb.Len() == 1) {
			sb.WriteByte(',')
		}
		sb.WriteString(s[i : i+3])
	}
	return sb.String()
}

// SplitList splits a comma or whitespace separated list, dropping empty items.
// Morpheme ngram queries arrive in this form: "{taku/1v},{juq/1vn}".
func SplitList(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
}
