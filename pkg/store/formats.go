package store

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// FileFormat represents the compiled corpus file formats
type FileFormat int

const (
	FormatUnknown FileFormat = iota
	FormatMsgpack            // Binary msgpack format
	FormatJSON               // Indented JSON, for inspection and diffs
)

const (
	magic = "MORPHIDX"
	// version 2 records ngram index positions on terminals
	version    = 2
	minVersion = 2
)

// header opens every corpus file.
type header struct {
	Magic   string `msgpack:"magic" json:"magic"`
	Version int    `msgpack:"version" json:"version"`
}

// FormatInfo contains metadata about a corpus file format
type FormatInfo struct {
	Format      FileFormat
	Name        string
	Description string
	Extensions  []string
	MinSize     int64 // Minimum expected file size in bytes
}

var supportedFormats = map[FileFormat]FormatInfo{
	FormatMsgpack: {
		Format:      FormatMsgpack,
		Name:        "msgpack",
		Description: "Binary msgpack corpus",
		Extensions:  []string{".msgpack", ".mpk"},
		MinSize:     16, // header and an empty state
	},
	FormatJSON: {
		Format:      FormatJSON,
		Name:        "json",
		Description: "JSON corpus",
		Extensions:  []string{".json"},
		MinSize:     2,
	},
}

func (f FileFormat) String() string {
	if info, ok := supportedFormats[f]; ok {
		return info.Name
	}
	return "unknown"
}

// ParseFormat maps a configuration name to a format.
func ParseFormat(name string) (FileFormat, error) {
	for format, info := range supportedFormats {
		if strings.EqualFold(name, info.Name) {
			return format, nil
		}
	}
	return FormatUnknown, fmt.Errorf("unknown corpus format %q", name)
}

// Extension is the preferred file extension of f.
func (f FileFormat) Extension() string {
	if info, ok := supportedFormats[f]; ok {
		return info.Extensions[0]
	}
	return ""
}

// FormatForExtension picks the format from a file name only.
func FormatForExtension(filename string) FileFormat {
	ext := strings.ToLower(filepath.Ext(filename))
	for format, info := range supportedFormats {
		for _, e := range info.Extensions {
			if ext == e {
				return format
			}
		}
	}
	return FormatUnknown
}

// ValidateFileFormat checks if a file matches the expected format
func ValidateFileFormat(filename string, expectedFormat FileFormat) error {
	fileInfo, err := os.Stat(filename)
	if err != nil {
		return fmt.Errorf("failed to stat file %s: %w", filename, err)
	}

	formatInfo, exists := supportedFormats[expectedFormat]
	if !exists {
		return fmt.Errorf("unknown format: %v", expectedFormat)
	}

	if fileInfo.Size() < formatInfo.MinSize {
		return fmt.Errorf("file %s is too small (%d bytes) for format %s (minimum: %d bytes)",
			filename, fileInfo.Size(), formatInfo.Description, formatInfo.MinSize)
	}

	if FormatForExtension(filename) != expectedFormat {
		return fmt.Errorf("file %s has invalid extension %s for format %s (expected: %v)",
			filename, filepath.Ext(filename), formatInfo.Description, formatInfo.Extensions)
	}

	switch expectedFormat {
	case FormatMsgpack:
		return validateMsgpackFormat(filename)
	case FormatJSON:
		return validateJSONFormat(filename)
	}
	return nil
}

// validateMsgpackFormat reads the header of a binary corpus
func validateMsgpackFormat(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", filename, err)
	}
	defer file.Close()

	var h header
	if err := msgpack.NewDecoder(bufio.NewReader(file)).Decode(&h); err != nil {
		return fmt.Errorf("failed to read header from %s: %w", filename, err)
	}
	if err := h.check(); err != nil {
		return fmt.Errorf("%s: %w", filename, err)
	}
	log.Debugf("Binary corpus %s validated: version %d", filename, h.Version)
	return nil
}

// validateJSONFormat reads the header fields of a JSON corpus
func validateJSONFormat(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", filename, err)
	}
	defer file.Close()

	var h header
	if err := json.NewDecoder(bufio.NewReader(file)).Decode(&h); err != nil {
		return fmt.Errorf("failed to read header from %s: %w", filename, err)
	}
	if err := h.check(); err != nil {
		return fmt.Errorf("%s: %w", filename, err)
	}
	log.Debugf("JSON corpus %s validated: version %d", filename, h.Version)
	return nil
}

func (h header) check() error {
	if h.Magic != magic {
		return fmt.Errorf("not a compiled corpus (magic %q)", h.Magic)
	}
	if h.Version < minVersion {
		return fmt.Errorf("corpus version %d is too old, compile it again", h.Version)
	}
	if h.Version > version {
		return fmt.Errorf("unsupported corpus version %d (max %d)", h.Version, version)
	}
	return nil
}

// DetectFileFormat detects and validates the format of a file
func DetectFileFormat(filename string) (FileFormat, error) {
	format := FormatForExtension(filename)
	if format == FormatUnknown {
		return FormatUnknown, fmt.Errorf("unable to detect format for file %s", filename)
	}
	if err := ValidateFileFormat(filename, format); err != nil {
		return FormatUnknown, err
	}
	return format, nil
}

// GetFormatInfo returns information about a specific format
func GetFormatInfo(format FileFormat) (FormatInfo, bool) {
	info, exists := supportedFormats[format]
	return info, exists
}
