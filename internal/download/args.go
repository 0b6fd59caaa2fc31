package download

import (
	"fmt"

	"github.com/kballard/go-shellquote"

	"github.com/ytget/yutto-gui/internal/model"
)

// Downloader command line flags
const (
	FlagBatch     = "--batch"
	FlagVIP       = "--vip"
	FlagFormat    = "--format"
	FlagOutputDir = "-d"
)

// BuildArgs assembles the downloader arguments for req in a fixed order:
// flags, extra tokens, format, output directory, URL last. The request is
// used as given; callers resolve the output directory beforehand.
// Extra arguments split with POSIX shell quoting only: operators such as
// ; & | > are ordinary characters and nothing is expanded.
func BuildArgs(req model.DownloadRequest) ([]string, error) {
	var args []string
	if req.Batch {
		args = append(args, FlagBatch)
	}
	if req.VIP {
		args = append(args, FlagVIP)
	}

	if req.ExtraArgs != "" {
		extra, err := shellquote.Split(req.ExtraArgs)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidArguments, err)
		}
		args = append(args, extra...)
	}

	if req.HasExplicitStream() {
		args = append(args, FlagFormat, req.Stream)
	}

	args = append(args, FlagOutputDir, req.OutputDir, req.URL)
	return args, nil
}
