package download

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/yutto-gui/internal/model"
)

func TestBuildArgs(t *testing.T) {
	tests := []struct {
		name string
		req  model.DownloadRequest
		want []string
	}{
		{
			name: "batch with extra args and stream",
			req: model.DownloadRequest{
				Batch: true, VIP: false, ExtraArgs: "--danmaku",
				Stream: "720p", OutputDir: "/x", URL: "https://a",
			},
			want: []string{"--batch", "--danmaku", "--format", "720p", "-d", "/x", "https://a"},
		},
		{
			name: "minimal",
			req:  model.DownloadRequest{OutputDir: "/x", URL: "https://a"},
			want: []string{"-d", "/x", "https://a"},
		},
		{
			name: "vip after batch",
			req:  model.DownloadRequest{Batch: true, VIP: true, OutputDir: "/x", URL: "https://a"},
			want: []string{"--batch", "--vip", "-d", "/x", "https://a"},
		},
		{
			name: "auto stream adds no format",
			req:  model.DownloadRequest{Stream: model.AutoStream, OutputDir: "/x", URL: "https://a"},
			want: []string{"-d", "/x", "https://a"},
		},
		{
			name: "quoted extra args stay one token",
			req: model.DownloadRequest{
				ExtraArgs: `--subpath-template "{title}/{name}" -c 'SESSDATA=a b'`,
				OutputDir: "/my videos", URL: "https://a",
			},
			want: []string{"--subpath-template", "{title}/{name}", "-c", "SESSDATA=a b", "-d", "/my videos", "https://a"},
		},
		{
			name: "ampersand in proxy url",
			req:  model.DownloadRequest{ExtraArgs: "--proxy http://h:1/?a=1&b=2 --danmaku", OutputDir: "/x", URL: "https://a"},
			want: []string{"--proxy", "http://h:1/?a=1&b=2", "--danmaku", "-d", "/x", "https://a"},
		},
		{
			name: "semicolon in cookie",
			req:  model.DownloadRequest{ExtraArgs: "-c SESSDATA=x;y --danmaku", OutputDir: "/x", URL: "https://a"},
			want: []string{"-c", "SESSDATA=x;y", "--danmaku", "-d", "/x", "https://a"},
		},
		{
			name: "pipe in template",
			req:  model.DownloadRequest{ExtraArgs: "--subpath-template {title}|{id} --danmaku", OutputDir: "/x", URL: "https://a"},
			want: []string{"--subpath-template", "{title}|{id}", "--danmaku", "-d", "/x", "https://a"},
		},
		{
			name: "redirect characters are literal",
			req:  model.DownloadRequest{ExtraArgs: "--name a>b<c --danmaku", OutputDir: "/x", URL: "https://a"},
			want: []string{"--name", "a>b<c", "--danmaku", "-d", "/x", "https://a"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BuildArgs(tt.req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildArgs_UnbalancedQuote(t *testing.T) {
	_, err := BuildArgs(model.DownloadRequest{ExtraArgs: `--danmaku "oops`, OutputDir: "/x", URL: "https://a"})
	assert.ErrorIs(t, err, ErrInvalidArguments)
}

func TestBuildArgs_DoesNotExpandEnvironment(t *testing.T) {
	t.Setenv("YUTTO_GUI_SECRET", "leaked")
	got, err := BuildArgs(model.DownloadRequest{ExtraArgs: "$YUTTO_GUI_SECRET", OutputDir: "/x", URL: "https://a"})
	require.NoError(t, err)
	assert.Equal(t, "$YUTTO_GUI_SECRET", got[0])
}
