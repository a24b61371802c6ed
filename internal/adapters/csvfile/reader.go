// Package csvfile reads occurrence CSV files.
package csvfile

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// File is an open CSV file. Its reader yields UTF-8 regardless of the
// encoding announced by the file's byte order mark.
type File struct {
	*csv.Reader
	f    *os.File
	path string
}

// Open opens path for CSV reading.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	r := csv.NewReader(transform.NewReader(f, unicode.BOMOverride(unicode.UTF8.NewDecoder())))
	r.ReuseRecord = true
	return &File{Reader: r, f: f, path: path}, nil
}

// Path returns the file path.
func (f *File) Path() string { return f.path }

// Close closes the underlying file.
func (f *File) Close() error { return f.f.Close() }

// Header reads the first record and returns it normalized.
func (f *File) Header() ([]string, error) {
	rec, err := f.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("read header of %s: file is empty", f.path)
	}
	if err != nil {
		return nil, fmt.Errorf("read header of %s: %w", f.path, err)
	}
	return NormalizeHeader(rec), nil
}

// NormalizeHeader trims and lowercases column names and strips stray
// double quotes. The input is not modified.
func NormalizeHeader(cols []string) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = strings.ToLower(strings.TrimSpace(strings.ReplaceAll(c, `"`, "")))
	}
	return out
}
