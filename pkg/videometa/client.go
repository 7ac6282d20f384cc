package videometa

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client resolves metadata through the external yt-dlp API:
// GET {base}/get-video-data?q={url}.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{},
		timeout:    timeout,
	}
}

func (c *Client) Resolve(ctx context.Context, videoURL string) (VideoData, error) {
	if !SupportedURL(videoURL) {
		return VideoData{}, ErrUnsupportedURL
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	reqURL := c.baseURL + "/get-video-data?q=" + url.QueryEscape(videoURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return VideoData{}, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return VideoData{}, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusBadRequest:
		return VideoData{}, ErrUnsupportedURL
	case http.StatusNotFound:
		return VideoData{}, ErrVideoNotFound
	default:
		return VideoData{}, fmt.Errorf("%w: %d", ErrBadStatus, resp.StatusCode)
	}

	var data VideoData
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return VideoData{}, fmt.Errorf("%w: %v", ErrDecodeFailed, err)
	}

	return data, nil
}
