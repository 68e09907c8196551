package interfaces

// Workspace is the local content tree the pipeline writes into
type Workspace interface {
	// Root returns the output root directory
	Root() string

	// Reset removes the output root and everything below it
	Reset() error

	// WriteFile writes data to a slash separated path relative to the root,
	// creating parent directories as needed
	WriteFile(relPath string, data []byte) error
}
