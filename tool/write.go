package tool

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"codecopilot/schema"

	"github.com/google/uuid"
)

// ErrPathEscapes is returned for filenames that are absolute or resolve
// outside the project directory.
var ErrPathEscapes = errors.New("path escapes the project directory")

// WriteResult is the confirmation record for one written file.
type WriteResult struct {
	Title     string
	Path      string
	Bytes     int
	Overwrote bool
	Planned   bool
}

// ProjectWriter writes model-provided files into a single per-run directory.
type ProjectWriter struct {
	dir  string
	mode Mode
}

type WriterOption func(*ProjectWriter)

// WithWriterMode sets the writer mode. ModePlan leaves the disk untouched.
func WithWriterMode(m Mode) WriterOption {
	return func(w *ProjectWriter) {
		w.mode = m
	}
}

// NewProjectWriter creates a fresh directory named by a random UUID under
// parent and returns a writer rooted there. The directory is never reused.
func NewProjectWriter(parent string, opts ...WriterOption) (*ProjectWriter, error) {
	dir, err := filepath.Abs(filepath.Join(parent, uuid.NewString()))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project directory: %w", err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create project directory: %w", err)
	}

	w := &ProjectWriter{dir: dir, mode: ModeNormal}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Dir returns the absolute project directory.
func (w *ProjectWriter) Dir() string {
	return w.dir
}

// Write stores spec.Content at spec.Filename relative to the project
// directory, replacing any previous content. Missing parent directories are
// created.
func (w *ProjectWriter) Write(spec schema.FileSpec) (WriteResult, error) {
	filePath, err := w.resolve(spec.Filename)
	if err != nil {
		return WriteResult{}, err
	}

	info, err := os.Stat(filePath)
	exists := err == nil
	if exists && info.IsDir() {
		return WriteResult{}, fmt.Errorf("path is a directory, not a file: %s", filePath)
	}

	result := WriteResult{
		Title:     filepath.ToSlash(filepath.Clean(spec.Filename)),
		Path:      filePath,
		Bytes:     len(spec.Content),
		Overwrote: exists,
	}

	if w.mode == ModePlan {
		result.Title = planTitle("%s", result.Title)
		result.Planned = true
		return result, nil
	}

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return WriteResult{}, fmt.Errorf("failed to create parent directory: %w", err)
	}
	if err := os.WriteFile(filePath, []byte(spec.Content), 0644); err != nil {
		return WriteResult{}, fmt.Errorf("failed to write file: %w", err)
	}

	return result, nil
}

func (w *ProjectWriter) resolve(filename string) (string, error) {
	if filename == "" {
		return "", errors.New("filename is required")
	}
	if filepath.IsAbs(filename) || !filepath.IsLocal(filename) {
		return "", fmt.Errorf("%w: %s", ErrPathEscapes, filename)
	}
	return filepath.Join(w.dir, filename), nil
}
