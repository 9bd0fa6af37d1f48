// Package cli runs an interactive query loop over the registered corpora, mainly for testing and debugging.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/bastiangx/morphindex/internal/logger"
	"github.com/bastiangx/morphindex/internal/utils"
	"github.com/bastiangx/morphindex/pkg/server"
	"github.com/charmbracelet/log"
)

const help = `commands:
  <ngram>             words containing a character ngram (^ and $ anchor it)
  morph <seg> ...     words containing a segment sequence
  morpheme <id>       words built on a morpheme, most frequent first
  word <word>         frequency and segmentation of a word
  top [prefix] [n]    most frequent words starting with prefix
  stats               corpus summary
  use <corpus>        switch corpus
  corpora             list corpora
  help                this text`

// InputHandler reads queries line by line and prints the answers. It goes
// through the same Service as the servers, so limits apply here too.
type InputHandler struct {
	service *server.Service
	corpus  string
	limit   int
	out     *log.Logger
}

// NewInputHandler creates a handler querying corpusName with at most limit
// results per answer.
func NewInputHandler(service *server.Service, corpusName string, limit int) *InputHandler {
	return &InputHandler{
		service: service,
		corpus:  corpusName,
		limit:   limit,
		out:     logger.NewWithConfig(os.Stdout, "", log.InfoLevel, false, false, log.TextFormatter),
	}
}

// SetOutput redirects the answers to w.
func (h *InputHandler) SetOutput(w io.Writer) {
	h.out.SetOutput(w)
}

// Start begins the interface loop on stdin. It returns nil on EOF.
func (h *InputHandler) Start() error {
	h.out.Print("morphindex CLI")
	h.out.Print("type an ngram or a command and press Enter (help lists them, Ctrl+C to exit):")
	return h.Run(os.Stdin)
}

// Run processes every line of r.
func (h *InputHandler) Run(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for {
		h.out.Printf("[%s]> ", h.corpusName())
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		h.handleInput(line)
	}
}

func (h *InputHandler) corpusName() string {
	if h.corpus == "" {
		return "empty"
	}
	return h.corpus
}

// handleInput dispatches one line. Anything that is not a command is an ngram.
func (h *InputHandler) handleInput(line string) {
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]
	start := time.Now()
	defer func() {
		log.Debugf("Took [ %v ] for '%s'", time.Since(start), line)
	}()

	switch cmd {
	case "help", "?":
		h.out.Print(help)
	case "corpora":
		for _, name := range h.service.Corpora() {
			h.out.Printf("  %s", name)
		}
	case "use":
		if len(args) != 1 {
			h.out.Error("usage: use <corpus>")
			return
		}
		if _, err := h.service.Stats(args[0]); err != nil {
			h.out.Error(err.Error())
			return
		}
		h.corpus = args[0]
	case "stats":
		h.printStats()
	case "word":
		if len(args) != 1 {
			h.out.Error("usage: word <word>")
			return
		}
		h.printWord(args[0])
	case "top":
		h.printTop(args)
	case "morph":
		words, total, err := h.service.MorphNgram(h.corpus, utils.SplitList(strings.Join(args, " ")), h.limit)
		h.printWords(strings.Join(args, " "), words, total, err)
	case "morpheme":
		if len(args) != 1 {
			h.out.Error("usage: morpheme <id>")
			return
		}
		ranked, total, err := h.service.Morpheme(h.corpus, args[0], h.limit)
		if err != nil {
			h.out.Error(err.Error())
			return
		}
		h.out.Printf("%d words contain %s, showing %d:", total, args[0], len(ranked))
		for i, wf := range ranked {
			h.printRanked(i, wf.Word, wf.Frequency)
		}
	default:
		words, total, err := h.service.Ngram(h.corpus, line, h.limit)
		h.printWords(line, words, total, err)
	}
}

func (h *InputHandler) printWords(query string, words []string, total int, err error) {
	if err != nil {
		h.out.Error(err.Error())
		return
	}
	if len(words) == 0 {
		h.out.Warnf("No words found for '%s'", query)
		return
	}
	h.out.Printf("Found %d words for '%s', showing %d:", total, query, len(words))
	for i, w := range words {
		h.out.Printf("%2d. %s", i+1, w)
	}
}

func (h *InputHandler) printRanked(i int, word string, freq int64) {
	clWord := fmt.Sprintf("\033[38;5;75m%s\033[0m", word)
	h.out.Printf("%2d. %-40s (freq: %8s)", i+1, clWord, utils.FormatWithCommas(freq))
}

func (h *InputHandler) printTop(args []string) {
	prefix, n := "", h.limit
	for _, arg := range args {
		if v, err := strconv.Atoi(arg); err == nil {
			n = v
		} else {
			prefix = arg
		}
	}
	ranked, err := h.service.Top(h.corpus, prefix, n)
	if err != nil {
		h.out.Error(err.Error())
		return
	}
	if len(ranked) == 0 {
		h.out.Warnf("No words start with '%s'", prefix)
		return
	}
	for i, wf := range ranked {
		h.printRanked(i, wf.Word, wf.Frequency)
	}
}

func (h *InputHandler) printWord(word string) {
	info, err := h.service.Word(h.corpus, word)
	if err != nil {
		h.out.Error(err.Error())
		return
	}
	h.out.Printf("%s  freq: %s", info.Word, utils.FormatWithCommas(info.Frequency))
	if info.Failed {
		h.out.Print("  segmentation failed")
		return
	}
	h.out.Printf("  segments: %s", info.Segmentation())
	if info.TotalDecompositions != nil {
		h.out.Printf("  decompositions: %d", *info.TotalDecompositions)
		for _, d := range info.TopDecompositions {
			h.out.Printf("    %s", strings.Join(d, " "))
		}
	}
}

func (h *InputHandler) printStats() {
	r, err := h.service.Stats(h.corpus)
	if err != nil {
		h.out.Error(err.Error())
		return
	}
	rows := []struct {
		label string
		value int64
	}{
		{"words", r.TotalWords},
		{"  with decompositions", r.TotalWordsWithDecomps},
		{"  without", r.TotalWordsWithNoDecomp},
		{"occurrences", r.TotalOccurrences},
		{"  with decompositions", r.TotalOccurrencesWithDecomp},
		{"  without", r.TotalOccurrencesNoDecomp},
		{"distinct segmentations", r.DistinctSegmentations},
	}
	h.out.Printf("corpus %s (segmenter %s)", h.corpusName(), r.Segmenter)
	for _, row := range rows {
		h.out.Printf("%-24s %12s", row.label, utils.FormatWithCommas(row.value))
	}
}
