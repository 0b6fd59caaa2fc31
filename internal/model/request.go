package model

import "strings"

// AutoStream is the sentinel descriptor shown when no quality could be
// detected. Selecting it means "let the downloader decide".
const AutoStream = "Default (auto)"

// DownloadRequest collects everything the form contributes to one download
type DownloadRequest struct {
	URL       string
	OutputDir string
	Batch     bool
	VIP       bool
	ExtraArgs string // shell-style, tokenized before launch
	Stream    string // empty or AutoStream means no --format
}

// Normalized returns a copy with surrounding whitespace removed
func (r DownloadRequest) Normalized() DownloadRequest {
	r.URL = strings.TrimSpace(r.URL)
	r.OutputDir = strings.TrimSpace(r.OutputDir)
	r.ExtraArgs = strings.TrimSpace(r.ExtraArgs)
	r.Stream = strings.TrimSpace(r.Stream)
	return r
}

// HasExplicitStream returns true if a concrete stream was chosen
func (r DownloadRequest) HasExplicitStream() bool {
	return IsExplicitStream(r.Stream)
}

// IsExplicitStream reports whether s names a real descriptor rather than
// nothing or the AutoStream sentinel
func IsExplicitStream(s string) bool {
	s = strings.TrimSpace(s)
	return s != "" && s != AutoStream
}
