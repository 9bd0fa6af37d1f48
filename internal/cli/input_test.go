package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/bastiangx/morphindex/pkg/corpus"
	"github.com/bastiangx/morphindex/pkg/registry"
	"github.com/bastiangx/morphindex/pkg/segment"
	"github.com/bastiangx/morphindex/pkg/server"
)

func newHandler(t *testing.T) (*InputHandler, *bytes.Buffer) {
	t.Helper()
	c, err := corpus.New(segment.Char{}, corpus.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	for w, n := range map[string]int64{"nunavut": 1200, "nunavik": 3, "iglu": 7} {
		if err := c.AddWordOccurrenceN(w, n); err != nil {
			t.Fatal(err)
		}
	}
	reg := registry.New(nil, nil)
	if err := reg.Add("north", c); err != nil {
		t.Fatal(err)
	}
	h := NewInputHandler(server.NewService(reg, server.Limits{}), "", 10)
	var out bytes.Buffer
	h.SetOutput(&out)
	return h, &out
}

func TestRunCommands(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"use north\n^nuna\n", []string{"Found 2 words for '^nuna'", "nunavik", "nunavut", "[north]>"}},
		{"use north\ntop nuna 1\n", []string{"nunavut", "1,200"}},
		{"use north\nword iglu\n", []string{"iglu  freq: 7", "segments: i g l u"}},
		{"use north\nstats\n", []string{"corpus north (segmenter char)", "1,210"}},
		{"use nowhere\nstats\n", []string{"unknown corpus", "corpus empty"}},
		{"^nuna\n", []string{"No words found"}},
		{"corpora\nhelp\n", []string{"empty", "north", "commands:"}},
		{"word\n", []string{"usage: word <word>"}},
	}
	for _, tt := range tests {
		h, out := newHandler(t)
		if err := h.Run(strings.NewReader(tt.input)); err != nil {
			t.Fatalf("Run(%q) error: %v", tt.input, err)
		}
		for _, want := range tt.want {
			if !strings.Contains(out.String(), want) {
				t.Errorf("Run(%q) output missing %q:\n%s", tt.input, want, out.String())
			}
		}
	}
}
