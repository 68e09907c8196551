package workspace

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/ecsync/pkg/domain/model"
)

// Workspace is a content tree rooted at a local directory
type Workspace struct {
	root string
}

// New creates a Workspace rooted at root. Nothing is created on disk until a file is written.
func New(root string) *Workspace {
	return &Workspace{root: filepath.Clean(root)}
}

// Root returns the output root directory
func (w *Workspace) Root() string {
	return w.root
}

// Reset removes the root directory recursively. A missing root is not an error.
// A filesystem root is never removed.
func (w *Workspace) Reset() error {
	if w.isFilesystemRoot() {
		return goerr.New("refusing to remove filesystem root",
			goerr.V("root", w.root),
			goerr.T(model.ErrTagWrite),
		)
	}

	if err := os.RemoveAll(w.root); err != nil {
		return goerr.Wrap(err, "failed to remove output directory",
			goerr.V("root", w.root),
			goerr.T(model.ErrTagWrite),
		)
	}
	return nil
}

// WriteFile writes data to relPath below the root, creating parent directories
// and overwriting any existing file
func (w *Workspace) WriteFile(relPath string, data []byte) error {
	destPath, err := w.resolve(relPath)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return goerr.Wrap(err, "failed to create parent directories",
			goerr.V("path", filepath.Dir(destPath)),
			goerr.T(model.ErrTagWrite),
		)
	}

	if err := os.WriteFile(destPath, data, 0644); err != nil {
		return goerr.Wrap(err, "failed to write file",
			goerr.V("path", destPath),
			goerr.T(model.ErrTagWrite),
		)
	}

	return nil
}

// resolve joins relPath to the root and rejects paths escaping it
func (w *Workspace) resolve(relPath string) (string, error) {
	destPath := filepath.Join(w.root, filepath.FromSlash(relPath))

	rel, err := filepath.Rel(w.root, destPath)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
		return "", goerr.New("invalid file path detected",
			goerr.V("path", relPath),
			goerr.V("root", w.root),
			goerr.T(model.ErrTagWrite),
		)
	}
	return destPath, nil
}

// isFilesystemRoot reports whether root is "/" or a volume root
func (w *Workspace) isFilesystemRoot() bool {
	return filepath.Dir(w.root) == w.root
}
