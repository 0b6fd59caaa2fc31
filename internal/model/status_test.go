package model

import "testing"

func TestSessionState_IsBusy(t *testing.T) {
	tests := []struct {
		state    SessionState
		expected bool
	}{
		{SessionIdle, false},
		{SessionParsing, true},
		{SessionDownloading, true},
		{SessionCancelling, true},
	}

	for _, test := range tests {
		result := test.state.IsBusy()
		if result != test.expected {
			t.Errorf("SessionState(%s).IsBusy() = %v, expected %v", test.state, result, test.expected)
		}
	}
}

func TestSessionState_CanCancel(t *testing.T) {
	tests := []struct {
		state    SessionState
		expected bool
	}{
		{SessionIdle, false},
		{SessionParsing, true},
		{SessionDownloading, true},
		{SessionCancelling, false},
	}

	for _, test := range tests {
		result := test.state.CanCancel()
		if result != test.expected {
			t.Errorf("SessionState(%s).CanCancel() = %v, expected %v", test.state, result, test.expected)
		}
	}
}

func TestStreamListEventCopiesSlice(t *testing.T) {
	streams := []string{"1080p", "720p"}
	ev := StreamListEvent(streams)
	streams[0] = "mutated"

	if ev.Streams[0] != "1080p" {
		t.Errorf("expected event to keep its own copy, got %q", ev.Streams[0])
	}
	if ev.IsLine() {
		t.Error("stream list event reported as line")
	}
}

func TestIsExplicitStream(t *testing.T) {
	tests := []struct {
		stream   string
		expected bool
	}{
		{"", false},
		{"   ", false},
		{AutoStream, false},
		{"720p", true},
		{" 1080p60 ", true},
	}

	for _, test := range tests {
		if got := IsExplicitStream(test.stream); got != test.expected {
			t.Errorf("IsExplicitStream(%q) = %v, expected %v", test.stream, got, test.expected)
		}
	}
}
