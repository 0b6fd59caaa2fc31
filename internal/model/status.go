package model

// SessionState represents where the session controller is in its lifecycle
type SessionState string

const (
	// SessionIdle means no child process is being supervised
	SessionIdle SessionState = "Idle"

	// SessionParsing means stream descriptors are being probed
	SessionParsing SessionState = "Parsing"

	// SessionDownloading means a download process is running
	SessionDownloading SessionState = "Downloading"

	// SessionCancelling is the short interrupt path back to Idle
	SessionCancelling SessionState = "Cancelling"
)

// String returns the string representation of SessionState
func (s SessionState) String() string {
	return string(s)
}

// IsBusy returns true while an action owns the child process slot
func (s SessionState) IsBusy() bool {
	return s == SessionParsing || s == SessionDownloading || s == SessionCancelling
}

// CanCancel returns true if a cancel request has something to interrupt
func (s SessionState) CanCancel() bool {
	return s == SessionParsing || s == SessionDownloading
}
