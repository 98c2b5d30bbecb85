package facebook

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/page-confessions/confession-relay/src/scheduler"
)

// Graph API timestamps: ISO 8601 with a colon-less zone offset.
const timeLayout = "2006-01-02T15:04:05-0700"

type Client struct {
	pageID  string
	token   string
	baseURL string
	client  *http.Client
}

type feedPost struct {
	Message     string `json:"message"`
	CreatedTime string `json:"created_time"`
}

type feedResponse struct {
	Data  []feedPost  `json:"data"`
	Error *graphError `json:"error,omitempty"`
}

type graphError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    int    `json:"code"`
}

func (e *graphError) Error() string {
	return fmt.Sprintf("graph api error %d (%s): %s", e.Code, e.Type, e.Message)
}

func NewClient(pageID, token, baseURL string) *Client {
	if baseURL == "" {
		baseURL = "https://graph.facebook.com/v12.0"
	}
	return &Client{
		pageID:  pageID,
		token:   token,
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// ListScheduled returns the page's queued posts.
func (c *Client) ListScheduled(ctx context.Context) ([]scheduler.FeedPost, error) {
	return c.listPosts(ctx, "scheduled_posts", 0)
}

// ListPublished returns the page's most recent published posts.
func (c *Client) ListPublished(ctx context.Context, limit int) ([]scheduler.FeedPost, error) {
	return c.listPosts(ctx, "feed", limit)
}

func (c *Client) listPosts(ctx context.Context, edge string, limit int) ([]scheduler.FeedPost, error) {
	q := url.Values{}
	q.Set("access_token", c.token)
	q.Set("fields", "message,created_time")
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	endpoint := fmt.Sprintf("%s/%s/%s?%s", c.baseURL, c.pageID, edge, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", edge, err)
	}
	defer resp.Body.Close()

	var body feedResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", edge, err)
	}
	if body.Error != nil {
		return nil, body.Error
	}

	posts := make([]scheduler.FeedPost, 0, len(body.Data))
	for _, p := range body.Data {
		t, err := time.Parse(timeLayout, p.CreatedTime)
		if err != nil {
			return nil, fmt.Errorf("parse created_time %q: %w", p.CreatedTime, err)
		}
		posts = append(posts, scheduler.FeedPost{Label: p.Message, Time: t})
	}
	return posts, nil
}

// CreateScheduled queues message for publication at publishAt.
func (c *Client) CreateScheduled(ctx context.Context, message string, publishAt time.Time) error {
	form := url.Values{}
	form.Set("access_token", c.token)
	form.Set("message", message)
	form.Set("published", "false")
	form.Set("scheduled_publish_time", strconv.FormatInt(publishAt.Unix(), 10))

	endpoint := fmt.Sprintf("%s/%s/feed", c.baseURL, c.pageID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("post to feed: %w", err)
	}
	defer resp.Body.Close()

	var body struct {
		ID    string      `json:"id"`
		Error *graphError `json:"error,omitempty"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("decode feed response: %w", err)
	}
	if body.Error != nil {
		return body.Error
	}
	return nil
}
