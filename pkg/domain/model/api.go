package model

import "encoding/json"

// APIPayload is the API descriptor published as a release asset.
// Raw keeps the upstream body so that it can be written without changes,
// Records is the parsed view used to build the description mapping.
type APIPayload struct {
	Raw     json.RawMessage
	Records []map[string]any
}

// WebsiteContent is an opaque blob fetched from the website repository
type WebsiteContent []byte

// RunResult summarizes a completed pipeline run
type RunResult struct {
	RunID        string
	TagName      string
	OutputDir    string
	Documents    int
	Descriptions int
}
