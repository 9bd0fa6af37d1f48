package corpus

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/bastiangx/morphindex/internal/utils"
	"github.com/charmbracelet/log"
	"golang.org/x/text/encoding/charmap"
)

const maxLineSize = 10 * 1024 * 1024

// DocumentStats describes one ingested document or a batch of them.
type DocumentStats struct {
	Documents int           `json:"documents"`
	Tokens    int64         `json:"tokens"`
	Skipped   int64         `json:"skipped"`
	Elapsed   time.Duration `json:"elapsed"`
}

// AddDocument splits r into words and adds one occurrence of each. Tokens are
// runs of word characters; tokens rejected by utils.IsValidToken are skipped.
func (c *CompiledCorpus) AddDocument(r io.Reader) (DocumentStats, error) {
	start := time.Now()
	stats := DocumentStats{Documents: 1}

	if strings.EqualFold(c.opts.Encoding, "latin1") || strings.EqualFold(c.opts.Encoding, "iso-8859-1") {
		r = charmap.ISO8859_1.NewDecoder().Reader(r)
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	for scanner.Scan() {
		tokens := strings.FieldsFunc(scanner.Text(), func(r rune) bool {
			return !utils.IsWordRune(r)
		})
		for _, tok := range tokens {
			tok = strings.Trim(tok, "'’")
			if !utils.IsValidToken(tok, c.opts.MinWordLength) {
				stats.Skipped++
				continue
			}
			if err := c.AddWordOccurrence(tok); err != nil {
				return stats, err
			}
			stats.Tokens++
		}
	}
	if err := scanner.Err(); err != nil {
		return stats, fmt.Errorf("failed to read document: %w", err)
	}
	stats.Elapsed = time.Since(start)
	return stats, nil
}

// AddFile ingests the document at path.
func (c *CompiledCorpus) AddFile(path string) (DocumentStats, error) {
	file, err := os.Open(path)
	if err != nil {
		return DocumentStats{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	stats, err := c.AddDocument(file)
	if err != nil {
		return stats, fmt.Errorf("failed to ingest %s: %w", path, err)
	}
	log.Debugf("Ingested %s: %d tokens, %d skipped in %v", path, stats.Tokens, stats.Skipped, stats.Elapsed)
	return stats, nil
}

// CompileDir ingests every .txt file under dir, in path order.
func (c *CompiledCorpus) CompileDir(dir string) (DocumentStats, error) {
	start := time.Now()
	files, err := utils.ListFiles(dir, ".txt")
	if err != nil {
		return DocumentStats{}, fmt.Errorf("failed to list documents in %s: %w", dir, err)
	}
	if len(files) == 0 {
		return DocumentStats{}, fmt.Errorf("no .txt documents found in %s", dir)
	}

	var total DocumentStats
	for _, path := range files {
		stats, err := c.AddFile(path)
		total.Documents += stats.Documents
		total.Tokens += stats.Tokens
		total.Skipped += stats.Skipped
		if err != nil {
			return total, err
		}
	}
	total.Elapsed = time.Since(start)
	log.Debugf("Compiled %d documents from %s: %d words, %d failed segmentation",
		total.Documents, dir, c.TotalWords(), c.FailedWords())
	return total, nil
}
