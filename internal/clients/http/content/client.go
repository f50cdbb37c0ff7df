package content

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/averost/commerce-api/internal/shared/fault"
)

// DefaultTimeout bounds a single call to the content API.
const DefaultTimeout = 10 * time.Second

// Post is one article from the external content API.
type Post struct {
	UserID int    `json:"userId"`
	ID     int    `json:"id"`
	Title  string `json:"title"`
	Body   string `json:"body"`
}

// NewPost is the payload for creating an article.
type NewPost struct {
	UserID int    `json:"userId"`
	Title  string `json:"title"`
	Body   string `json:"body"`
}

// Client talks to the external content API over plain HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient instantiates the content client with sane defaults.
func NewClient(baseURL string, httpClient *http.Client) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("content base URL is required")
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &Client{baseURL: baseURL, httpClient: httpClient}, nil
}

// GetPosts fetches the full article listing.
func (c *Client) GetPosts(ctx context.Context) ([]Post, error) {
	if err := c.ensure(); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/posts", nil)
	if err != nil {
		return nil, fmt.Errorf("build content request: %w", err)
	}
	var posts []Post
	if err := c.do(req, http.StatusOK, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// CreatePost submits an article and returns the stored representation.
func (c *Client) CreatePost(ctx context.Context, post NewPost) (*Post, error) {
	if err := c.ensure(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(post.Title) == "" {
		return nil, fault.New(fault.KindValidation, errors.New("post title is required"))
	}
	body, err := json.Marshal(post)
	if err != nil {
		return nil, fmt.Errorf("encode content payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/posts", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build content request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	var created Post
	if err := c.do(req, http.StatusCreated, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) do(req *http.Request, wantStatus int, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fault.New(fault.KindTransient, fmt.Errorf("call content API: %w", err))
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == wantStatus:
	case resp.StatusCode >= http.StatusInternalServerError:
		return fault.New(fault.KindTransient, fmt.Errorf("content API error: %s", resp.Status))
	default:
		return fmt.Errorf("content API unexpected status: %s", resp.Status)
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return fault.New(fault.KindTransient, fmt.Errorf("read content response: %w", err))
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("decode content response: %w", err)
	}
	return nil
}

func (c *Client) ensure() error {
	if c == nil || c.httpClient == nil {
		return errors.New("content client not configured")
	}
	return nil
}
