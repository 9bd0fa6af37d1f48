package utils

import (
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// PathResolver finds the directory holding compiled corpus files.
type PathResolver struct {
	executableDir string
	configDir     string
	extensions    []string
}

// NewPathResolver creates a resolver that looks next to the executable, in
// the working directory and under configDir. A directory counts as a data
// directory when it holds a file with one of extensions.
func NewPathResolver(configDir string, extensions ...string) *PathResolver {
	pr := &PathResolver{configDir: configDir, extensions: extensions}
	if execDir, err := GetExecutableDir(); err == nil {
		if resolved, err := filepath.EvalSymlinks(execDir); err == nil {
			execDir = resolved
		}
		pr.executableDir = execDir
	} else {
		log.Warnf("Could not determine executable directory: %v", err)
	}
	return pr
}

// DataDir resolves userPath against the candidate locations, in order:
//  1. userPath itself when absolute
//  2. relative to the working directory
//  3. relative to the executable
//  4. <configDir>/data
//
// The first candidate holding corpus files wins. When none does, the first
// candidate is returned so callers can create it.
func (pr *PathResolver) DataDir(userPath string) string {
	candidates := pr.candidates(userPath)
	for _, path := range candidates {
		if pr.isValidDataDir(path) {
			log.Debugf("Found data directory: %s", path)
			return path
		}
		log.Debugf("Data directory candidate not valid: %s", path)
	}
	return candidates[0]
}

func (pr *PathResolver) candidates(userPath string) []string {
	if filepath.IsAbs(userPath) {
		return []string{userPath}
	}
	var out []string
	if cwd, err := os.Getwd(); err == nil {
		out = append(out, filepath.Join(cwd, userPath))
	}
	if pr.executableDir != "" {
		out = append(out, filepath.Join(pr.executableDir, userPath))
	}
	if pr.configDir != "" {
		out = append(out, filepath.Join(pr.configDir, "data"))
	}
	if len(out) == 0 {
		out = append(out, userPath)
	}
	return out
}

func (pr *PathResolver) isValidDataDir(path string) bool {
	if stat, err := os.Stat(path); err != nil || !stat.IsDir() {
		return false
	}
	for _, ext := range pr.extensions {
		matches, err := filepath.Glob(filepath.Join(path, "*"+ext))
		if err == nil && len(matches) > 0 {
			return true
		}
	}
	return false
}
