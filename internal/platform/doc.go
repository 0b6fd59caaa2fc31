package platform

// Package platform contains OS/platform integration and external tooling glue:
// supervising the downloader CLI as a child process, probing its output for
// stream descriptors, and filesystem helpers for the output directory.
