package app

import (
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/substantial-kst/vscode-macros/internal/engine/buffer"
)

// Document is a file loaded into a buffer.
type Document struct {
	// Path is the file path (empty for scratch documents).
	Path string

	// Name is the display name.
	Name string

	// Buffer holds the text and selection.
	Buffer *buffer.Buffer

	// ReadOnly prevents Save.
	ReadOnly bool

	// saved is the revision last written to or read from disk.
	saved atomic.Value
}

// NewDocument creates a document for path with the given content.
func NewDocument(path string, content []byte) *Document {
	name := filepath.Base(path)
	if path == "" {
		name = "Untitled"
	}
	doc := &Document{
		Path:   path,
		Name:   name,
		Buffer: newBuffer(path, content),
	}
	doc.markSaved()
	return doc
}

// OpenDocument reads path into a new document.
func OpenDocument(path string) (*Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, &FileError{Op: "open", Path: path, Err: err}
	}
	return NewDocument(path, content), nil
}

// Content returns the full document text.
func (d *Document) Content() string {
	return d.Buffer.Text()
}

// IsModified returns true if the buffer changed since the last load or save.
func (d *Document) IsModified() bool {
	saved, _ := d.saved.Load().(buffer.RevisionID)
	return d.Buffer.RevisionID() != saved
}

// Save writes the buffer back to its file.
func (d *Document) Save() error {
	if d.Path == "" {
		return ErrNoFilePath
	}
	if d.ReadOnly {
		return ErrReadOnly
	}

	mode := os.FileMode(0o644)
	if info, err := os.Stat(d.Path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(d.Path, []byte(d.Content()), mode); err != nil {
		return &FileError{Op: "save", Path: d.Path, Err: err}
	}
	d.markSaved()
	return nil
}

// Reload replaces the buffer with the file's current content.
func (d *Document) Reload() error {
	if d.Path == "" {
		return ErrNoFilePath
	}
	content, err := os.ReadFile(d.Path)
	if err != nil {
		return &FileError{Op: "reload", Path: d.Path, Err: err}
	}
	d.Buffer = newBuffer(d.Path, content)
	d.markSaved()
	return nil
}

// newBuffer keeps the file's line ending style for Save.
func newBuffer(path string, content []byte) *buffer.Buffer {
	text := string(content)
	return buffer.NewBufferFromString(text, buffer.WithDetectedLineEnding(text), buffer.WithPath(path))
}

func (d *Document) markSaved() {
	d.saved.Store(d.Buffer.RevisionID())
}
