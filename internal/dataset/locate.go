package dataset

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// DefaultDataDir is scanned when no data directory is configured.
const DefaultDataDir = "data"

// DefaultFileName is the conventional source file name.
const DefaultFileName = "items.csv"

// Options controls where Locate looks for the source file.
type Options struct {
	// Path is an explicit override, tried first
	Path string

	// DataDir holds the conventional data/items.csv and is scanned for CSV-like files
	DataDir string

	// BaseDir anchors relative conventional paths; empty means the working directory
	BaseDir string
}

// Locate resolves the source file: the explicit path, then
// <DataDir>/items.csv, then data/items.csv, then items.csv, then the first
// CSV-like file in DataDir, then the first CSV-like file in the base directory.
func Locate(opts Options) (string, error) {
	if opts.Path != "" {
		if isFile(opts.Path) {
			return opts.Path, nil
		}
		slog.Warn("configured dataset path not found, falling back", "path", opts.Path)
	}

	dataDir := opts.DataDir
	if dataDir == "" {
		dataDir = DefaultDataDir
	}
	dataDir = filepath.Join(opts.BaseDir, dataDir)
	baseDir := opts.BaseDir
	if baseDir == "" {
		baseDir = "."
	}

	for _, candidate := range []string{
		filepath.Join(dataDir, DefaultFileName),
		filepath.Join(opts.BaseDir, DefaultDataDir, DefaultFileName),
		filepath.Join(opts.BaseDir, DefaultFileName),
	} {
		if isFile(candidate) {
			return candidate, nil
		}
	}

	for _, dir := range []string{dataDir, baseDir} {
		if found := firstTabular(dir); found != "" {
			return found, nil
		}
	}

	return "", fmt.Errorf("%w (path=%q, data_dir=%q)", ErrSourceNotFound, opts.Path, dataDir)
}

// firstTabular returns the lexically first CSV-like file directly in dir.
func firstTabular(dir string) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	for _, entry := range entries {
		if entry.IsDir() || !isTabular(entry.Name()) {
			continue
		}
		return filepath.Join(dir, entry.Name())
	}
	return ""
}

func isTabular(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".tsv":
		return true
	}
	return false
}

// delimiterFor picks the field separator from the file extension.
func delimiterFor(path string) rune {
	if strings.EqualFold(filepath.Ext(path), ".tsv") {
		return '\t'
	}
	return ','
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
