package controller

import (
	"errors"
	"net/http"

	"github.com/ytparty/server/pkg/rest"
	"github.com/ytparty/server/pkg/videometa"
)

// getVideoData resolves video metadata for a url without touching any room.
// Useful for client-side previews before adding a video.
func (c *controller) getVideoData(w http.ResponseWriter, r *http.Request) {
	videoURL := r.URL.Query().Get("url")
	if videoURL == "" {
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"error": "url query parameter is required"})
		return
	}

	if !videometa.SupportedURL(videoURL) {
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"error": "unsupported video url"})
		return
	}

	videoData, err := c.resolver.Resolve(r.Context(), videoURL)
	if err != nil {
		switch {
		case errors.Is(err, videometa.ErrUnsupportedURL):
			rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"error": "unsupported video url"})
		case errors.Is(err, videometa.ErrVideoNotFound):
			rest.WriteJSON(w, http.StatusNotFound, rest.Envelope{"error": "video not found"})
		default:
			c.logger.ErrorContext(r.Context(), "failed to resolve video data", "error", err)
			rest.WriteJSON(w, http.StatusInternalServerError, rest.Envelope{"error": "failed to fetch video data"})
		}
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"video_data": videoData})
}
