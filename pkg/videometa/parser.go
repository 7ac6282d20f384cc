package videometa

import (
	"context"
	"fmt"
	"net/http"

	"golang.org/x/net/html"
)

func (r *OembedResolver) getFromPage(ctx context.Context, videoId string) (VideoData, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "https://youtu.be/"+videoId, nil)
	if err != nil {
		return VideoData{}, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return VideoData{}, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return VideoData{}, fmt.Errorf("%w: %v", ErrDecodeFailed, err)
	}

	return VideoData{
		Title:     getTitle(doc),
		Uploader:  getLinkContent(doc),
		Thumbnail: fmt.Sprintf("https://i.ytimg.com/vi/%s/hqdefault.jpg", videoId),
	}, nil
}

func getTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" && n.FirstChild != nil {
		return n.FirstChild.Data
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if title := getTitle(c); title != "" {
			return title
		}
	}

	return ""
}

func getLinkContent(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "link" {
		itemprop := false
		for _, attr := range n.Attr {
			if attr.Key == "itemprop" && attr.Val == "name" {
				itemprop = true
			}
		}
		if itemprop {
			for _, attr := range n.Attr {
				if attr.Key == "content" {
					return attr.Val
				}
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if content := getLinkContent(c); content != "" {
			return content
		}
	}

	return ""
}
