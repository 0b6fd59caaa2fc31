package download

import (
	"context"

	"github.com/ytget/yutto-gui/internal/model"
)

// Supervisor is what the presentation layers drive
type Supervisor interface {
	Parse(url string) error
	Download(req model.DownloadRequest) error
	Cancel()
	Close() error

	SelectStream(stream string)
	SelectedStream() string
	State() model.SessionState
}

// Sink receives events for the UI. It must not block.
type Sink interface {
	Push(e model.Event)
}

// Prober lists the stream descriptors a URL offers
type Prober interface {
	Probe(ctx context.Context, url string) ([]string, error)
}
