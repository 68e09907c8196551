package model

import "github.com/m-mizutani/goerr/v2"

var (
	// ErrTagFetch marks failures of remote retrieval: network, HTTP status or parse errors
	ErrTagFetch = goerr.NewTag("fetch_error")

	// ErrTagNotFound marks an expected item missing from an otherwise successful lookup
	ErrTagNotFound = goerr.NewTag("not_found")

	// ErrTagWrite marks local filesystem failures
	ErrTagWrite = goerr.NewTag("write_error")
)
