// Package download implements the session controller that supervises the
// external downloader: it turns parse, download and cancel requests into
// child processes, relays their output to the event queue and keeps at most
// one child active at a time.
package download
