package videometa_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytparty/server/pkg/videometa"
)

func TestSupportedURL(t *testing.T) {
	tests := []struct {
		url       string
		supported bool
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", true},
		{"http://youtube.com/watch?v=dQw4w9WgXcQ", true},
		{"youtube.com/watch?v=dQw4w9WgXcQ", true},
		{"https://youtu.be/dQw4w9WgXcQ", true},
		{"https://www.youtube.com/shorts/abc123", true},
		{"https://vimeo.com/123456", false},
		{"https://example.com/watch?v=dQw4w9WgXcQ", false},
		{"https://youtu.be/", false},
		{"not a url", false},
		{"", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.supported, videometa.SupportedURL(tt.url), tt.url)
	}
}

func TestVideoId(t *testing.T) {
	tests := []struct {
		url string
		id  string
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/shorts/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/playlist?list=abc", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.id, videometa.VideoId(tt.url), tt.url)
	}
}

func TestClientResolve(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/get-video-data", r.URL.Path)
		switch r.URL.Query().Get("q") {
		case "https://www.youtube.com/watch?v=dQw4w9WgXcQ":
			w.Write([]byte(`{
				"title": "Never Gonna Give You Up",
				"thumbnail": "https://i.ytimg.com/vi/dQw4w9WgXcQ/hqdefault.jpg",
				"duration": 213,
				"upload_date": "20091025",
				"view_count": 1000000,
				"uploader": "Rick Astley"
			}`))
		case "https://www.youtube.com/watch?v=missing0000":
			w.WriteHeader(http.StatusNotFound)
		case "https://www.youtube.com/watch?v=badreq00000":
			w.WriteHeader(http.StatusBadRequest)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	c := videometa.NewClient(srv.URL, 5*time.Second)
	ctx := context.Background()

	data, err := c.Resolve(ctx, "https://www.youtube.com/watch?v=dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.Equal(t, "Never Gonna Give You Up", data.Title)
	assert.Equal(t, 213, data.DurationSeconds)
	assert.Equal(t, "Rick Astley", data.Uploader)
	assert.EqualValues(t, 1000000, data.ViewCount)

	_, err = c.Resolve(ctx, "https://www.youtube.com/watch?v=missing0000")
	assert.ErrorIs(t, err, videometa.ErrVideoNotFound)

	_, err = c.Resolve(ctx, "https://www.youtube.com/watch?v=badreq00000")
	assert.ErrorIs(t, err, videometa.ErrUnsupportedURL)

	_, err = c.Resolve(ctx, "https://www.youtube.com/watch?v=whatever000")
	assert.ErrorIs(t, err, videometa.ErrBadStatus)
}

func TestClientResolveUnsupportedURL(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	c := videometa.NewClient(srv.URL, 5*time.Second)

	_, err := c.Resolve(context.Background(), "https://vimeo.com/123456")
	assert.ErrorIs(t, err, videometa.ErrUnsupportedURL)
	assert.False(t, called, "unsupported url must be rejected without a request")
}

func TestClientResolveServerDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := videometa.NewClient(srv.URL, time.Second)

	_, err := c.Resolve(context.Background(), "https://www.youtube.com/watch?v=dQw4w9WgXcQ")
	assert.ErrorIs(t, err, videometa.ErrRequestFailed)
}
