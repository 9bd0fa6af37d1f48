package trie

import (
	"reflect"
	"sort"
	"strings"
	"testing"
)

func sortedForms(nodes []*Node) []string {
	forms := surfaceForms(nodes)
	sort.Strings(forms)
	return forms
}

func TestJoinedTerminalsAddOnce(t *testing.T) {
	tr := New()
	addWords(t, tr, "ab", "ab", "cd", "ab")
	if got, want := tr.joined.String(), ";a,b;c,d;"; got != want {
		t.Errorf("joined = %q; want %q", got, want)
	}
	if _, err := tr.Add(nil, "zz"); err != nil {
		t.Fatal(err)
	}
	if got, want := tr.joined.String(), ";a,b;c,d;"; got != want {
		t.Errorf("joined after failed segmentation = %q; want %q", got, want)
	}
}

func TestJoinedTerminalsEscaping(t *testing.T) {
	tr := New()
	segs := []string{"a,b", "c;d", "50%"}
	if _, err := tr.Add(segs, "odd"); err != nil {
		t.Fatal(err)
	}
	if _, err := tr.Add([]string{"a", "b"}, "plain"); err != nil {
		t.Fatal(err)
	}

	got := tr.TerminalsMatchingNgram([]string{"c;d"})
	if len(got) != 1 || !reflect.DeepEqual(got[0].Segments(), segs) {
		t.Fatalf("TerminalsMatchingNgram(c;d) = %v; want the odd path", got)
	}
	// "a,b" is one segment and must not match the two segment path a b.
	got = tr.TerminalsMatchingNgram([]string{"a", "b"})
	if forms := surfaceForms(got); !reflect.DeepEqual(forms, []string{"plain"}) {
		t.Errorf("TerminalsMatchingNgram(a b) = %v; want [plain]", forms)
	}
	got = tr.TerminalsMatchingNgram([]string{"50%", NgramEnd})
	if forms := surfaceForms(got); !reflect.DeepEqual(forms, []string{"odd"}) {
		t.Errorf("TerminalsMatchingNgram(50%% $) = %v; want [odd]", forms)
	}
}

func TestTerminalsMatchingNgram(t *testing.T) {
	tr := New()
	addWords(t, tr, "nunavut", "takujuq", "plugak", "nunavik", "iglu", "nunavut")

	tests := []struct {
		name    string
		pattern string
		want    []string
	}{
		{"inner", "nav", []string{"nunavik", "nunavut"}},
		{"start anchor", "^nun", []string{"nunavik", "nunavut"}},
		{"start anchor misses inner", "^nav", nil},
		{"end anchor", "juq$", []string{"takujuq"}},
		{"end anchor misses inner", "nun$", nil},
		{"single segment", "u", []string{"nunavik", "nunavut", "plugak", "takujuq", "iglu"}},
		{"both anchors", "^iglu$", []string{"iglu"}},
		{"absent", "xyz", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sortedForms(tr.TerminalsMatchingNgram(ngram(tt.pattern)))
			want := append([]string{}, tt.want...)
			sort.Strings(want)
			if len(got) == 0 && len(want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, want) {
				t.Errorf("TerminalsMatchingNgram(%q) = %v; want %v", tt.pattern, got, want)
			}
		})
	}
}

func TestTerminalsMatchingNgramDistinct(t *testing.T) {
	tr := New()
	addWords(t, tr, "nanana", "ana")
	got := surfaceForms(tr.TerminalsMatchingNgram(chars("na")))
	if want := []string{"nanana", "ana"}; !reflect.DeepEqual(got, want) {
		t.Errorf("TerminalsMatchingNgram(na) = %v; want %v", got, want)
	}
}

func TestTerminalsForPrefixMode(t *testing.T) {
	tr := New()
	addWords(t, tr, "nunavut", "takujuq", "nunavik")

	got := sortedForms(tr.TerminalsFor(chars("nuna"), true))
	if want := []string{"nunavik", "nunavut"}; !reflect.DeepEqual(got, want) {
		t.Errorf("TerminalsFor(nuna, true) = %v; want %v", got, want)
	}
	if got := tr.TerminalsFor(chars("ujuq"), true); len(got) != 0 {
		t.Errorf("TerminalsFor(ujuq, true) = %v; want none", surfaceForms(got))
	}
	got = sortedForms(tr.TerminalsFor(chars("ujuq"), false))
	if want := []string{"takujuq"}; !reflect.DeepEqual(got, want) {
		t.Errorf("TerminalsFor(ujuq, false) = %v; want %v", got, want)
	}
	// a leading ^ forces prefix mode
	got = sortedForms(tr.TerminalsFor(ngram("^nuna"), false))
	if want := []string{"nunavik", "nunavut"}; !reflect.DeepEqual(got, want) {
		t.Errorf("TerminalsFor(^nuna, false) = %v; want %v", got, want)
	}
	got = surfaceForms(tr.TerminalsFor(ngram("^nunavut$"), false))
	if want := []string{"nunavut"}; !reflect.DeepEqual(got, want) {
		t.Errorf("TerminalsFor(^nunavut$) = %v; want %v", got, want)
	}
	if got := tr.TerminalsFor(ngram("^nuna$"), false); len(got) != 0 {
		t.Errorf("TerminalsFor(^nuna$) = %v; want none", surfaceForms(got))
	}
	if got := tr.TerminalsFor(nil, false); len(got) != 3 {
		t.Errorf("TerminalsFor(nil) returned %d terminals; want 3", len(got))
	}
}

func TestUnescapeSegment(t *testing.T) {
	tests := map[string]string{
		"plain":   "plain",
		"a%2Cb":   "a,b",
		"c%3Bd":   "c;d",
		"50%25":   "50%",
		"%":       "%",
		"%2":      "%2",
		"%2C%3B%": ",;%",
	}
	for in, want := range tests {
		if got := unescapeSegment(in); got != want {
			t.Errorf("unescapeSegment(%q) = %q; want %q", in, got, want)
		}
	}
}

// ngram splits a pattern into characters, keeping ^ and $ as anchors.
func ngram(pattern string) []string {
	var out []string
	if strings.HasPrefix(pattern, NgramStart) {
		out = append(out, NgramStart)
		pattern = pattern[1:]
	}
	anchorEnd := strings.HasSuffix(pattern, NgramEnd)
	if anchorEnd {
		pattern = pattern[:len(pattern)-1]
	}
	out = append(out, chars(pattern)...)
	if anchorEnd {
		out = append(out, NgramEnd)
	}
	return out
}
