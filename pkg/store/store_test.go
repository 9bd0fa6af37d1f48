package store

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/bastiangx/morphindex/pkg/corpus"
	"github.com/bastiangx/morphindex/pkg/segment"
	"github.com/bastiangx/morphindex/pkg/trie"
)

const testLexicon = `
taku   {taku/1v}
juq    {juq/1vn} {juq/tv-dec-3s}
nuna   {nuna/1n}
vut    {vut/tv-dec-3p}
vik    {vik/1nn}
`

var testWords = []string{
	"takujuq", "nunavut", "plugak", "takujuq", "nunavik", "nunavut", "takujuq",
	"hello", "hello", "hint", "helicopter", "helicopter", "helios",
}

func compile(t *testing.T) (*corpus.CompiledCorpus, *segment.Lexicon) {
	t.Helper()
	lex, err := segment.ReadLexicon(strings.NewReader(testLexicon))
	if err != nil {
		t.Fatal(err)
	}
	c, err := corpus.New(lex, corpus.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if err := c.AddWordOccurrences(testWords...); err != nil {
		t.Fatal(err)
	}
	return c, lex
}

// sameAnswers compares every query the corpus serves for the inserted words.
func sameAnswers(t *testing.T, got, want *corpus.CompiledCorpus) {
	t.Helper()
	if !reflect.DeepEqual(got.Describe(), want.Describe()) {
		t.Errorf("Describe() = %+v; want %+v", got.Describe(), want.Describe())
	}
	if !reflect.DeepEqual(got.AllWords(), want.AllWords()) {
		t.Errorf("AllWords() = %v; want %v", got.AllWords(), want.AllWords())
	}
	for _, w := range want.AllWords() {
		if !reflect.DeepEqual(got.InfoForWord(w), want.InfoForWord(w)) {
			t.Errorf("InfoForWord(%q) = %+v; want %+v", w, got.InfoForWord(w), want.InfoForWord(w))
		}
		chars := segment.Chars(w)
		if g, e := got.CharTrie().Frequency(chars), want.CharTrie().Frequency(chars); g != e {
			t.Errorf("Frequency(%q) = %d; want %d", w, g, e)
		}
		for i := 1; i <= len(w); i++ {
			prefix := w[:i]
			g := got.MostFrequentWordsWithPrefix(prefix, 3)
			e := want.MostFrequentWordsWithPrefix(prefix, 3)
			if !reflect.DeepEqual(g, e) {
				t.Errorf("MostFrequentWordsWithPrefix(%q) = %v; want %v", prefix, g, e)
			}
			for _, ngram := range []string{prefix, "^" + prefix, w[i-1:] + "$"} {
				if g, e := got.WordsContainingNgram(ngram), want.WordsContainingNgram(ngram); !reflect.DeepEqual(g, e) {
					t.Errorf("WordsContainingNgram(%q) = %v; want %v", ngram, g, e)
				}
			}
		}
	}
	for _, morph := range []string{"{juq/1vn}", "{nuna/1n}", "{vik/1nn}"} {
		if g, e := got.WordsContainingMorpheme(morph), want.WordsContainingMorpheme(morph); !reflect.DeepEqual(g, e) {
			t.Errorf("WordsContainingMorpheme(%q) = %v; want %v", morph, g, e)
		}
		// unordered sets would hide a change in index order
		if g, e := got.WordsContainingMorphNgram([]string{morph}), want.WordsContainingMorphNgram([]string{morph}); !reflect.DeepEqual(g, e) {
			t.Errorf("WordsContainingMorphNgram(%q) = %v; want %v", morph, g, e)
		}
	}
	gotMorphs := got.MorphTrie().MostFrequentTerminals(0, got.MorphTrie().Root(), nil)
	wantMorphs := want.MorphTrie().MostFrequentTerminals(0, want.MorphTrie().Root(), nil)
	if len(gotMorphs) != len(wantMorphs) {
		t.Fatalf("morph terminals = %d; want %d", len(gotMorphs), len(wantMorphs))
	}
	for i := range wantMorphs {
		if gotMorphs[i].KeysAsString() != wantMorphs[i].KeysAsString() {
			t.Errorf("morph ranking[%d] = %s; want %s", i, gotMorphs[i].KeysAsString(), wantMorphs[i].KeysAsString())
		}
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	for _, name := range []string{"corpus.msgpack", "corpus.json"} {
		t.Run(name, func(t *testing.T) {
			c, lex := compile(t)
			path := filepath.Join(t.TempDir(), "nested", name)
			if err := Save(path, c); err != nil {
				t.Fatalf("Save() error: %v", err)
			}
			loaded, err := Load(path, lex)
			if err != nil {
				t.Fatalf("Load() error: %v", err)
			}
			sameAnswers(t, loaded, c)

			// loaded corpora keep compiling
			if err := loaded.AddWordOccurrence("nunavik"); err != nil {
				t.Fatal(err)
			}
			if got := loaded.InfoForWord("nunavik").Frequency; got != 2 {
				t.Errorf("nunavik frequency = %d; want 2", got)
			}
			if got := loaded.MorphTrie().Frequency([]string{"{nuna/1n}", "{vik/1nn}", trie.Terminal}); got != 2 {
				t.Errorf("morph terminal frequency = %d; want 2", got)
			}
		})
	}
}

func TestEncodeDecode(t *testing.T) {
	c, lex := compile(t)
	var buf bytes.Buffer
	if err := Encode(&buf, FormatMsgpack, c); err != nil {
		t.Fatal(err)
	}
	decoded, err := Decode(&buf, FormatMsgpack, lex)
	if err != nil {
		t.Fatal(err)
	}
	sameAnswers(t, decoded, c)

	if _, err := Decode(strings.NewReader("not msgpack"), FormatMsgpack, lex); err == nil {
		t.Error("Decode of garbage should fail")
	}
	if err := Encode(&buf, FormatUnknown, c); err == nil {
		t.Error("Encode with an unknown format should fail")
	}
}

func TestDetectFileFormat(t *testing.T) {
	dir := t.TempDir()
	c, _ := compile(t)
	good := filepath.Join(dir, "good.mpk")
	if err := Save(good, c); err != nil {
		t.Fatal(err)
	}
	if f, err := DetectFileFormat(good); err != nil || f != FormatMsgpack {
		t.Errorf("DetectFileFormat(good.mpk) = %v, %v; want msgpack", f, err)
	}

	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
		return path
	}
	tests := []struct {
		name string
		path string
	}{
		{"unknown extension", write("corpus.txt", "hello world, this is text")},
		{"too small", write("tiny.msgpack", "x")},
		{"wrong magic", write("other.json", `{"magic":"SOMETHING","version":1}`)},
		{"future version", write("future.json", `{"magic":"MORPHIDX","version":99}`)},
		{"old version", write("old.json", `{"magic":"MORPHIDX","version":1}`)},
		{"missing", filepath.Join(dir, "missing.json")},
	}
	for _, tt := range tests {
		if _, err := DetectFileFormat(tt.path); err == nil {
			t.Errorf("%s: DetectFileFormat(%s) should fail", tt.name, tt.path)
		}
	}
}

func TestParseFormat(t *testing.T) {
	for name, want := range map[string]FileFormat{"msgpack": FormatMsgpack, "JSON": FormatJSON} {
		got, err := ParseFormat(name)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %v, %v; want %v", name, got, err, want)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("ParseFormat(xml) should fail")
	}
	if FormatJSON.Extension() != ".json" || FormatMsgpack.String() != "msgpack" {
		t.Error("format metadata is wrong")
	}
	if info, ok := GetFormatInfo(FormatMsgpack); !ok || info.Description == "" {
		t.Errorf("GetFormatInfo(msgpack) = %+v, %v", info, ok)
	}
	if _, ok := GetFormatInfo(FormatUnknown); ok {
		t.Error("GetFormatInfo(unknown) should report false")
	}
}
