package segment

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// LoadLexicon reads a lexicon file. See ReadLexicon for the format.
func LoadLexicon(path string) (*Lexicon, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open lexicon %s: %w", path, err)
	}
	defer file.Close()

	lex, err := ReadLexicon(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read lexicon %s: %w", path, err)
	}
	log.Debugf("Loaded lexicon %s: %d surfaces, %d morphemes", path, lex.Surfaces(), lex.Morphemes())
	return lex, nil
}

// ReadLexicon parses one morpheme surface per line followed by one or more
// morpheme IDs, separated by whitespace:
//
//	taku  {taku/1v}
//	juq   {juq/1vn} {juq/tv-dec-3s}
//
// Blank lines and lines starting with # are skipped. Malformed lines are
// logged and skipped.
func ReadLexicon(r io.Reader) (*Lexicon, error) {
	lex := NewLexicon()
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			log.Warnf("Skipping lexicon line %d: expected a surface and at least one id, got %q", lineNo, line)
			continue
		}
		for _, id := range fields[1:] {
			if err := lex.AddMorpheme(fields[0], id); err != nil {
				log.Warnf("Skipping morpheme on line %d: %v", lineNo, err)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if lex.Surfaces() == 0 {
		return nil, fmt.Errorf("lexicon has no morphemes")
	}
	return lex, nil
}
