/*
Package store saves compiled corpora to disk and loads them back.

Two formats are supported and picked by file extension: msgpack (.msgpack,
.mpk), the compact default, and indented JSON (.json). Both start with a header
carrying a magic string and a version so that stray files are rejected before
the body is decoded.
*/
package store

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/bastiangx/morphindex/internal/utils"
	"github.com/bastiangx/morphindex/pkg/corpus"
	"github.com/bastiangx/morphindex/pkg/segment"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

type jsonFile struct {
	header
	Corpus *corpus.State `json:"corpus"`
}

// Save writes c to path in the format given by the extension. The file is
// written next to path and renamed into place.
func Save(path string, c *corpus.CompiledCorpus) error {
	format := FormatForExtension(path)
	if format == FormatUnknown {
		return fmt.Errorf("unable to pick a format for %s", path)
	}
	if err := utils.EnsureDir(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}

	start := time.Now()
	tmp, err := os.CreateTemp(filepath.Dir(path), ".corpus-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	w := bufio.NewWriter(tmp)
	if err := Encode(w, format, c); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move corpus into %s: %w", path, err)
	}
	log.Debugf("Saved corpus %s (%s) in %v", path, format, time.Since(start))
	return nil
}

// Load reads the corpus at path. segmenter must match the one the corpus was
// compiled with.
func Load(path string, segmenter segment.Segmenter) (*corpus.CompiledCorpus, error) {
	format, err := DetectFileFormat(path)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	start := time.Now()
	c, err := Decode(bufio.NewReader(file), format, segmenter)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	log.Debugf("Loaded corpus %s: %d words in %v", path, c.TotalWords(), time.Since(start))
	return c, nil
}

// Encode writes c to w.
func Encode(w io.Writer, format FileFormat, c *corpus.CompiledCorpus) error {
	st, err := c.State()
	if err != nil {
		return err
	}
	h := header{Magic: magic, Version: version}

	switch format {
	case FormatMsgpack:
		enc := msgpack.NewEncoder(w)
		if err := enc.Encode(h); err != nil {
			return err
		}
		return enc.Encode(st)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(jsonFile{header: h, Corpus: st})
	}
	return fmt.Errorf("unknown format: %v", format)
}

// Decode reads a corpus written by Encode.
func Decode(r io.Reader, format FileFormat, segmenter segment.Segmenter) (*corpus.CompiledCorpus, error) {
	var st *corpus.State
	switch format {
	case FormatMsgpack:
		dec := msgpack.NewDecoder(r)
		var h header
		if err := dec.Decode(&h); err != nil {
			return nil, fmt.Errorf("failed to read header: %w", err)
		}
		if err := h.check(); err != nil {
			return nil, err
		}
		st = &corpus.State{}
		if err := dec.Decode(st); err != nil {
			return nil, fmt.Errorf("failed to decode corpus: %w", err)
		}
	case FormatJSON:
		var f jsonFile
		if err := json.NewDecoder(r).Decode(&f); err != nil {
			return nil, fmt.Errorf("failed to decode corpus: %w", err)
		}
		if err := f.check(); err != nil {
			return nil, err
		}
		st = f.Corpus
	default:
		return nil, fmt.Errorf("unknown format: %v", format)
	}
	return corpus.Restore(st, segmenter)
}
