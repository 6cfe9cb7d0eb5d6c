// Package youtube resolves video transcripts for summarization.
//
// Caption metadata comes from the YouTube Data API; the transcript text
// itself is pulled from the public timedtext endpoint, which serves the
// auto-generated track as XML.
package youtube

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"html"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"google.golang.org/api/option"
	yt "google.golang.org/api/youtube/v3"
)

const timedTextBaseURL = "https://www.youtube.com/api/timedtext"

// Sentinel errors.
var (
	// ErrNoAPIKey is returned when the API key is missing.
	ErrNoAPIKey = errors.New("youtube: API key required")

	// ErrNotAVideo is returned when a string is not a YouTube link.
	ErrNotAVideo = errors.New("youtube: not a video link")

	// ErrNoCaptions is returned when the video has no caption track.
	ErrNoCaptions = errors.New("youtube: no captions available")
)

var videoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// ParseVideoID extracts the 11-character video ID from a YouTube URL.
// Accepts watch URLs, youtu.be short links, shorts, and embeds.
func ParseVideoID(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", ErrNotAVideo
	}

	host := strings.TrimPrefix(u.Hostname(), "www.")
	switch host {
	case "youtu.be":
		id := strings.Trim(u.Path, "/")
		if videoIDPattern.MatchString(id) {
			return id, nil
		}
	case "youtube.com", "m.youtube.com", "music.youtube.com":
		if id := u.Query().Get("v"); videoIDPattern.MatchString(id) {
			return id, nil
		}
		for _, prefix := range []string{"/shorts/", "/embed/", "/live/"} {
			if strings.HasPrefix(u.Path, prefix) {
				id := strings.Trim(strings.TrimPrefix(u.Path, prefix), "/")
				if videoIDPattern.MatchString(id) {
					return id, nil
				}
			}
		}
	}
	return "", ErrNotAVideo
}

// Client fetches video transcripts.
type Client struct {
	service  *yt.Service
	http     *http.Client
	textBase string
	logger   *slog.Logger
}

// ClientOption configures the client.
type ClientOption func(*Client)

// WithTimedTextBaseURL overrides the transcript endpoint.
func WithTimedTextBaseURL(u string) ClientOption {
	return func(c *Client) { c.textBase = u }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) ClientOption {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a transcript client backed by the YouTube Data API.
func NewClient(ctx context.Context, apiKey string, opts ...ClientOption) (*Client, error) {
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}
	service, err := yt.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("youtube: create service: %w", err)
	}

	c := &Client{
		service:  service,
		http:     &http.Client{Timeout: 15 * time.Second},
		textBase: timedTextBaseURL,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("component", "youtube")
	return c, nil
}

// Transcript returns the caption text for a video, joined into one
// plain-text block.
func (c *Client) Transcript(ctx context.Context, videoID string) (string, error) {
	lang, err := c.captionLanguage(ctx, videoID)
	if err != nil {
		return "", err
	}

	text, err := c.fetchTimedText(ctx, videoID, lang)
	if err != nil {
		return "", err
	}
	if text == "" {
		return "", ErrNoCaptions
	}
	return text, nil
}

// captionLanguage finds a caption track for the video, preferring
// English.
func (c *Client) captionLanguage(ctx context.Context, videoID string) (string, error) {
	resp, err := c.service.Captions.List([]string{"snippet"}, videoID).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("youtube: list captions: %w", err)
	}
	if len(resp.Items) == 0 {
		return "", ErrNoCaptions
	}

	lang := resp.Items[0].Snippet.Language
	for _, item := range resp.Items {
		if strings.HasPrefix(item.Snippet.Language, "en") {
			lang = item.Snippet.Language
			break
		}
	}
	return lang, nil
}

// fetchTimedText pulls the caption XML from the public endpoint.
func (c *Client) fetchTimedText(ctx context.Context, videoID, lang string) (string, error) {
	q := url.Values{}
	q.Set("v", videoID)
	q.Set("lang", lang)

	req, err := http.NewRequestWithContext(ctx, "GET", c.textBase+"?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("youtube: create request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("youtube: fetch transcript: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("youtube: transcript endpoint returned %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("youtube: read transcript: %w", err)
	}
	return parseTimedText(body)
}

// parseTimedText flattens timedtext XML into plain text.
func parseTimedText(data []byte) (string, error) {
	var doc struct {
		Texts []struct {
			Value string `xml:",chardata"`
		} `xml:"text"`
	}
	if err := xml.Unmarshal(data, &doc); err != nil {
		return "", fmt.Errorf("youtube: parse transcript: %w", err)
	}

	parts := make([]string, 0, len(doc.Texts))
	for _, t := range doc.Texts {
		s := strings.TrimSpace(html.UnescapeString(t.Value))
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " "), nil
}
