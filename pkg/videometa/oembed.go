package videometa

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// OembedResolver resolves metadata without an external service: the YouTube
// oembed endpoint first, then a watch-page scrape for videos that are not
// embeddable. Duration and view count are not recoverable this way.
type OembedResolver struct {
	httpClient *http.Client
	timeout    time.Duration
}

func NewOembedResolver(timeout time.Duration) *OembedResolver {
	return &OembedResolver{
		httpClient: &http.Client{},
		timeout:    timeout,
	}
}

func (r *OembedResolver) Resolve(ctx context.Context, videoURL string) (VideoData, error) {
	if !SupportedURL(videoURL) {
		return VideoData{}, ErrUnsupportedURL
	}

	videoId := VideoId(videoURL)
	if videoId == "" {
		return VideoData{}, ErrUnsupportedURL
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	data, err := r.getWithOembed(ctx, videoId)
	if err != nil {
		if !errors.Is(err, ErrVideoNotEmbeddable) {
			return VideoData{}, fmt.Errorf("failed to get video data with oembed: %w", err)
		}

		data, err = r.getFromPage(ctx, videoId)
		if err != nil {
			return VideoData{}, fmt.Errorf("failed to get video data from page: %w", err)
		}
	}

	return data, nil
}

type oembedResponse struct {
	Title        string `json:"title"`
	AuthorName   string `json:"author_name"`
	ThumbnailURL string `json:"thumbnail_url"`
}

func (r *OembedResolver) getWithOembed(ctx context.Context, videoId string) (VideoData, error) {
	reqURL := fmt.Sprintf("https://www.youtube.com/oembed?url=https://www.youtube.com/watch?v=%s", videoId)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return VideoData{}, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return VideoData{}, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusBadRequest, http.StatusNotFound:
		return VideoData{}, ErrVideoNotFound
	case http.StatusUnauthorized:
		return VideoData{}, ErrVideoNotEmbeddable
	default:
		return VideoData{}, fmt.Errorf("%w: %d", ErrBadStatus, resp.StatusCode)
	}

	var result oembedResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return VideoData{}, fmt.Errorf("%w: %v", ErrDecodeFailed, err)
	}

	return VideoData{
		Title:     result.Title,
		Uploader:  result.AuthorName,
		Thumbnail: result.ThumbnailURL,
	}, nil
}
