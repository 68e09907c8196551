package model

import "strings"

// Document is a single markdown file bundled with a release
type Document struct {
	Filename string // Slash separated path relative to the docs directory
	Content  []byte
}

// HasSegment reports whether any slash separated segment of the filename equals seg
func (d *Document) HasSegment(seg string) bool {
	for _, s := range strings.Split(d.Filename, "/") {
		if s == seg {
			return true
		}
	}
	return false
}
