package trie

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func chars(word string) []string {
	return strings.Split(word, "")
}

func addWords(t *testing.T, tr *Trie, words ...string) {
	t.Helper()
	for _, w := range words {
		if _, err := tr.Add(chars(w), w); err != nil {
			t.Fatalf("Add(%q) error: %v", w, err)
		}
	}
}

func surfaceForms(nodes []*Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.TerminalSurfaceForm()
	}
	return out
}

// checkAncestorSums verifies that every node's frequency equals the summed
// frequency of the terminals below it.
func checkAncestorSums(t *testing.T, tr *Trie, n *Node) {
	t.Helper()
	if n.IsTerminal() {
		return
	}
	var sum int64
	for _, term := range tr.Terminals(n) {
		sum += term.Frequency
	}
	if n.Frequency != sum {
		t.Errorf("node [%s] frequency = %d; want sum of terminals %d", n.KeysAsString(), n.Frequency, sum)
	}
	for _, child := range n.Children() {
		checkAncestorSums(t, tr, child)
	}
}

func TestAddAndGetChars(t *testing.T) {
	tr := New()
	addWords(t, tr, "hello", "hell boy")

	node := tr.Lookup(chars("hello"))
	if node == nil {
		t.Fatal("Lookup(hello) = nil; want node")
	}
	if node.IsTerminal() {
		t.Error("hello node should not be terminal, its child is")
	}
	if node.Frequency != 1 {
		t.Errorf("hello frequency = %d; want 1", node.Frequency)
	}
	if node.Child(Terminal) == nil {
		t.Error("hello node has no terminal child")
	}

	hell := tr.Lookup(chars("hell"))
	if hell == nil || hell.Frequency != 2 {
		t.Fatalf("hell node = %+v; want frequency 2", hell)
	}
	if hell.Child(Terminal) != nil {
		t.Error("hell should not have a terminal child")
	}
}

func TestAddTerminalSurfaceForms(t *testing.T) {
	tr := New()
	segs := []string{"{nalunaq/1n}", "{iq/1nv}", "{si/2vv}", "{vut/tv-dec-3p}"}
	for _, form := range []string{"nalunaiqsivut", "nalunairsivut", "nalunaiqsivut"} {
		if _, err := tr.Add(segs, form); err != nil {
			t.Fatal(err)
		}
	}

	term := tr.Lookup(append(append([]string{}, segs...), Terminal))
	if term == nil || !term.IsTerminal() {
		t.Fatalf("terminal node = %+v; want terminal", term)
	}
	want := map[string]int64{"nalunaiqsivut": 2, "nalunairsivut": 1}
	if !reflect.DeepEqual(term.SurfaceForms, want) {
		t.Errorf("SurfaceForms = %v; want %v", term.SurfaceForms, want)
	}
	if got := term.MostFrequentSurfaceForm(); got != "nalunaiqsivut" {
		t.Errorf("MostFrequentSurfaceForm() = %q; want nalunaiqsivut", got)
	}
	if term.Frequency != 3 {
		t.Errorf("terminal frequency = %d; want 3", term.Frequency)
	}
}

func TestMostFrequentSurfaceFormTies(t *testing.T) {
	n := newNode([]string{"a", Terminal})
	n.RecordSurfaceForm("abcd", 2)
	n.RecordSurfaceForm("abd", 2)
	n.RecordSurfaceForm("abc", 2)
	n.RecordSurfaceForm("z", 1)
	if got := n.MostFrequentSurfaceForm(); got != "abc" {
		t.Errorf("MostFrequentSurfaceForm() = %q; want abc", got)
	}
}

func TestAddChildIsIdempotent(t *testing.T) {
	n := newNode(nil)
	a := n.AddChild("a")
	if again := n.AddChild("a"); again != a {
		t.Error("AddChild returned a different node on the second call")
	}
	n.AddChild("b")
	if got := n.ChildSegments(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("ChildSegments() = %v; want [a b]", got)
	}
	if n.Child("c") != nil {
		t.Error("Child(c) should be nil")
	}
}

func TestFrequencyAccumulation(t *testing.T) {
	tr := New()
	addWords(t, tr, "hello", "hit")
	before := map[string]int64{}
	for _, p := range []string{"", "h", "he", "hel", "hell", "hello"} {
		before[p] = tr.Frequency(chars(p))
	}

	const n = 4
	for i := 0; i < n; i++ {
		addWords(t, tr, "hello")
	}

	for p, was := range before {
		if got := tr.Frequency(chars(p)); got != was+n {
			t.Errorf("Frequency(%q) = %d; want %d", p, got, was+n)
		}
	}
	if got := tr.Frequency(append(chars("hello"), Terminal)); got != n+1 {
		t.Errorf("terminal frequency = %d; want %d", got, n+1)
	}
	checkAncestorSums(t, tr, tr.Root())
}

func TestAddNIncrement(t *testing.T) {
	tr := New()
	if _, err := tr.AddN(chars("ok"), "ok", 5); err != nil {
		t.Fatal(err)
	}
	if _, err := tr.AddN(chars("on"), "on", 2); err != nil {
		t.Fatal(err)
	}
	if got := tr.Frequency(chars("o")); got != 7 {
		t.Errorf("Frequency(o) = %d; want 7", got)
	}
	if got := tr.Root().Frequency; got != 7 {
		t.Errorf("root frequency = %d; want 7", got)
	}
	checkAncestorSums(t, tr, tr.Root())
}

func TestFrequenciesOfWords(t *testing.T) {
	tr := New()
	addWords(t, tr, "hello", "world", "hell boy", "heaven", "worship", "world", "heaven", "world")

	tests := []struct {
		word string
		want int64
	}{
		{"blah", 0},
		{"worship", 1},
		{"heaven", 2},
		{"world", 3},
	}
	for _, tt := range tests {
		if got := tr.Frequency(chars(tt.word)); got != tt.want {
			t.Errorf("Frequency(%q) = %d; want %d", tt.word, got, tt.want)
		}
	}
	checkAncestorSums(t, tr, tr.Root())
}

func TestGetNodeOptions(t *testing.T) {
	tr := New()

	node, err := tr.GetNode(chars("abc"))
	if err != nil || node != nil {
		t.Fatalf("GetNode(abc) = %v, %v; want nil, nil", node, err)
	}
	node, err = tr.GetNode(chars("abc"), NoCreate)
	if err != nil || node != nil {
		t.Fatalf("GetNode(abc, NoCreate) = %v, %v; want nil, nil", node, err)
	}
	if tr.Lookup(chars("a")) != nil {
		t.Fatal("lookup created nodes")
	}

	node, err = tr.GetNode(chars("abc"), AsTerminal)
	if err != nil {
		t.Fatal(err)
	}
	if !node.IsTerminal() {
		t.Error("GetNode(abc, AsTerminal) should return a terminal")
	}
	if got := node.KeysAsString(); got != `a b c \` {
		t.Errorf("KeysAsString() = %q; want %q", got, `a b c \`)
	}
	if tr.Lookup(chars("ab")) == nil {
		t.Error("intermediate node ab was not created")
	}
}

func TestParentNode(t *testing.T) {
	tr := New()
	addWords(t, tr, "hello", "hit", "abba", "helios", "helm", "ok")

	if p := tr.ParentNode(nil); p != nil {
		t.Errorf("ParentNode(root) = %v; want nil", p)
	}
	p := tr.ParentNode(chars("hel"))
	if p == nil || p.KeysAsString() != "h e" {
		t.Fatalf("ParentNode(hel) = %v; want h e", p)
	}
	if pp := tr.ParentNode(p.Keys); pp == nil || pp.KeysAsString() != "h" {
		t.Errorf("ParentNode(he) = %v; want h", pp)
	}
}

func TestTerminals(t *testing.T) {
	tr := New()
	addWords(t, tr, "hello", "hit", "abba", "helios", "helm", "ok", "okdoo")

	tests := []struct {
		prefix string
		want   []string
	}{
		{"h", []string{"hello", "helios", "helm", "hit"}},
		{"hel", []string{"hello", "helios", "helm"}},
		{"o", []string{"ok", "okdoo"}},
		{"ok", []string{"ok", "okdoo"}},
		{"x", nil},
	}
	for _, tt := range tests {
		got := surfaceForms(tr.TerminalsFor(chars(tt.prefix), true))
		if len(got) == 0 && len(tt.want) == 0 {
			continue
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("TerminalsFor(%q) = %v; want %v", tt.prefix, got, tt.want)
		}
	}

	if got := tr.Size(); got != 7 {
		t.Errorf("Size() = %d; want 7", got)
	}
}

func TestTotals(t *testing.T) {
	tr := New()
	addWords(t, tr, "hello", "hello", "hit", "abba", "helios", "helm", "ok", "ok")

	if got := tr.TotalTerminals(nil); got != 6 {
		t.Errorf("TotalTerminals(root) = %d; want 6", got)
	}
	if got := tr.TotalTerminalOccurrences(nil); got != 8 {
		t.Errorf("TotalTerminalOccurrences(root) = %d; want 8", got)
	}
	if got := tr.TotalTerminals(chars("hel")); got != 3 {
		t.Errorf("TotalTerminals(hel) = %d; want 3", got)
	}
	if got := tr.TotalTerminalOccurrences(chars("hel")); got != 4 {
		t.Errorf("TotalTerminalOccurrences(hel) = %d; want 4", got)
	}
	if got := tr.TotalTerminals(chars("zz")); got != 0 {
		t.Errorf("TotalTerminals(zz) = %d; want 0", got)
	}
}

func TestMostFrequentTerminal(t *testing.T) {
	tr := New()
	addWords(t, tr,
		"hello", "hello", "hells", "hellam", "hellam", "hellam",
		"hit", "abba", "helios", "helm", "ok", "ok", "ok", "ok")

	if got := tr.MostFrequentTerminal(tr.Root()); got == nil || got.KeysAsString() != `o k \` {
		t.Errorf("MostFrequentTerminal(root) = %v; want o k \\", got)
	}
	got := tr.MostFrequentTerminalFor(chars("hell"))
	if got == nil || got.KeysAsString() != `h e l l a m \` {
		t.Fatalf("MostFrequentTerminalFor(hell) = %v; want h e l l a m \\", got)
	}
	if form := got.TerminalSurfaceForm(); form != "hellam" {
		t.Errorf("TerminalSurfaceForm() = %q; want hellam", form)
	}
	if tr.MostFrequentTerminal(nil) != nil {
		t.Error("MostFrequentTerminal(nil) should be nil")
	}
}

func TestMostFrequentTerminals(t *testing.T) {
	tr := New()
	addWords(t, tr,
		"hello", "hello", "hells", "hellam", "hellam", "hellam",
		"hit", "abba", "helios", "helm", "ok", "ok", "ok", "ok")

	tests := []struct {
		n      int
		prefix string
		want   []string
	}{
		{2, "hell", []string{"hellam", "hello"}},
		{4, "hell", []string{"hellam", "hello", "hells"}},
		{1, "", []string{"ok"}},
		{3, "", []string{"ok", "hellam", "hello"}},
	}
	for _, tt := range tests {
		got := surfaceForms(tr.MostFrequentTerminalsFor(tt.n, chars(tt.prefix)))
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("MostFrequentTerminalsFor(%d, %q) = %v; want %v", tt.n, tt.prefix, got, tt.want)
		}
	}
}

func TestMostFrequentTerminalsTieBreak(t *testing.T) {
	// hello and helicopter are tied at 2: helicopter sorts first.
	tr := New()
	addWords(t, tr, "hello", "hello", "hint", "helicopter", "helicopter", "helios")
	hel := tr.Lookup(chars("hel"))

	got := surfaceForms(tr.MostFrequentTerminals(2, hel, nil))
	if want := []string{"helicopter", "hello"}; !reflect.DeepEqual(got, want) {
		t.Errorf("top 2 = %v; want %v", got, want)
	}
	got = surfaceForms(tr.MostFrequentTerminals(3, hel, nil))
	if want := []string{"helicopter", "hello", "helios"}; !reflect.DeepEqual(got, want) {
		t.Errorf("top 3 = %v; want %v", got, want)
	}

	// hello and helios are tied at 1 behind helicopter.
	tr = New()
	addWords(t, tr, "hello", "hint", "helicopter", "helios", "helicopter")
	got = surfaceForms(tr.MostFrequentTerminals(2, tr.Lookup(chars("hel")), nil))
	if want := []string{"helicopter", "helios"}; !reflect.DeepEqual(got, want) {
		t.Errorf("top 2 = %v; want %v", got, want)
	}
}

func TestMostFrequentTerminalsExclusions(t *testing.T) {
	tr := New()
	addWords(t, tr, "hello", "hint", "helicopter", "helios", "helicopter", "helios", "helios")
	hel := tr.Lookup(chars("hel"))

	got := surfaceForms(tr.MostFrequentTerminals(2, hel, nil))
	if want := []string{"helios", "helicopter"}; !reflect.DeepEqual(got, want) {
		t.Errorf("top 2 = %v; want %v", got, want)
	}
	if got := tr.MostFrequentTerminals(4, hel, nil); len(got) != 3 {
		t.Errorf("top 4 returned %d nodes; want 3", len(got))
	}

	exclude := tr.Lookup(append(chars("hello"), Terminal))
	excl := tr.MostFrequentTerminals(4, hel, []*Node{exclude})
	if want := []string{"helios", "helicopter"}; !reflect.DeepEqual(surfaceForms(excl), want) {
		t.Errorf("top 4 excluding hello = %v; want %v", surfaceForms(excl), want)
	}
	for _, n := range excl {
		if n == exclude {
			t.Error("excluded node returned")
		}
	}
	if got := tr.MostFrequentTerminals(1, hel, []*Node{exclude}); len(got) != 1 {
		t.Errorf("top 1 returned %d nodes; want 1", len(got))
	}
}

func TestMostFrequentTerminalsDeterministic(t *testing.T) {
	tr := New()
	addWords(t, tr, "aa", "ab", "ac", "ba", "bb", "b", "a", "ca", "cb")
	first := tr.MostFrequentTerminals(0, tr.Root(), nil)
	for i := 0; i < 20; i++ {
		again := tr.MostFrequentTerminals(0, tr.Root(), nil)
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("call %d returned %v; want %v", i, surfaceForms(again), surfaceForms(first))
		}
	}
	want := []string{"a", "aa", "ab", "ac", "b", "ba", "bb", "ca", "cb"}
	if got := surfaceForms(first); !reflect.DeepEqual(got, want) {
		t.Errorf("ranking = %v; want %v", got, want)
	}
}

func TestMostFrequentSequenceForRoot(t *testing.T) {
	tr := New()
	addWords(t, tr, "hello", "hint", "helicopter", "helios")
	if _, err := tr.Add(chars("helicopter"), "helipcopter"); err != nil {
		t.Fatal(err)
	}
	if got := tr.MostFrequentSequenceForRoot("h"); !reflect.DeepEqual(got, []string{"h", "e"}) {
		t.Errorf("MostFrequentSequenceForRoot(h) = %v; want [h e]", got)
	}
	if got := tr.MostFrequentSequenceForRoot("z"); got != nil {
		t.Errorf("MostFrequentSequenceForRoot(z) = %v; want nil", got)
	}
}

func TestMostFrequentTerminalFromSequence(t *testing.T) {
	taku, juq, laaq, sima := "{taku/1v}", "{juq/1vn}", "{laaq/2vv}", "{sima/1vv}"
	tests := []struct {
		name string
		adds [][]string
		want string
	}{
		{
			name: "juq twice",
			adds: [][]string{{taku, juq}, {taku, juq}, {taku, laaq, juq}, {taku, laaq, sima, juq}, {taku, sima, juq}},
			want: `{taku/1v} {juq/1vn} \`,
		},
		{
			name: "juq and laaq tied",
			adds: [][]string{{taku, juq}, {taku, juq}, {taku, juq}, {taku, laaq, juq}, {taku, laaq, juq}, {taku, laaq, sima, juq}, {taku, sima, juq}},
			want: `{taku/1v} {juq/1vn} \`,
		},
		{
			name: "laaq dominant",
			adds: [][]string{{taku, juq}, {taku, juq}, {taku, laaq, juq}, {taku, laaq, juq}, {taku, laaq, juq}, {taku, laaq, sima, juq}, {taku, sima, juq}},
			want: `{taku/1v} {laaq/2vv} {juq/1vn} \`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := New()
			for _, segs := range tt.adds {
				if _, err := tr.Add(segs, strings.Join(segs, "")); err != nil {
					t.Fatal(err)
				}
			}
			got := tr.MostFrequentTerminalFromMostFrequentSequenceForRoot(taku)
			if got == nil || got.KeysAsString() != tt.want {
				t.Errorf("got %v; want %s", got, tt.want)
			}
		})
	}
}

func TestNilSegmentsUseNoSegmentationPath(t *testing.T) {
	tr := New()
	addWords(t, tr, "abc")
	for _, w := range []string{"plugak", "xyz", "plugak"} {
		if _, err := tr.Add(nil, w); err != nil {
			t.Fatal(err)
		}
	}

	node := tr.Lookup([]string{NoSegmentation, Terminal})
	if node == nil {
		t.Fatal("no-segmentation terminal missing")
	}
	if node.Frequency != 3 {
		t.Errorf("no-segmentation frequency = %d; want 3", node.Frequency)
	}
	if len(node.SurfaceForms) != 2 {
		t.Errorf("no-segmentation surface forms = %v; want 2 entries", node.SurfaceForms)
	}
	if got := tr.Root().Frequency; got != 4 {
		t.Errorf("root frequency = %d; want 4", got)
	}
	if got := tr.TerminalsMatchingNgram([]string{NoSegmentation}); len(got) != 0 {
		t.Errorf("ngram search found %d no-segmentation terminals; want 0", len(got))
	}
}

func TestCreatedTerminalIsIndexedOnAdd(t *testing.T) {
	tr := New()
	if _, err := tr.GetNode(chars("xyz"), AsTerminal); err != nil {
		t.Fatal(err)
	}
	if got := tr.TerminalsMatchingNgram([]string{"y"}); len(got) != 0 {
		t.Errorf("ngram y before Add = %v; want none", surfaceForms(got))
	}

	addWords(t, tr, "xyz", "xyz")
	if got := surfaceForms(tr.TerminalsMatchingNgram([]string{"y"})); !reflect.DeepEqual(got, []string{"xyz"}) {
		t.Errorf("ngram y after Add = %v; want [xyz]", got)
	}
	if got, want := tr.joined.String(), ";x,y,z;"; got != want {
		t.Errorf("joined index = %q; want %q", got, want)
	}
}

func TestStructuralErrors(t *testing.T) {
	var tr Trie
	_, err := tr.Add(chars("abc"), "abc")
	var serr *StructuralError
	if !errors.As(err, &serr) {
		t.Fatalf("Add on zero trie error = %v; want *StructuralError", err)
	}
	if !errors.Is(err, ErrNilRoot) {
		t.Errorf("error %v does not wrap ErrNilRoot", err)
	}
	if _, err := tr.GetNode(chars("a")); !errors.As(err, &serr) {
		t.Errorf("GetNode on zero trie error = %v; want *StructuralError", err)
	}
	if got := tr.Frequency(chars("a")); got != 0 {
		t.Errorf("Frequency on zero trie = %d; want 0", got)
	}
}
