package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	internal "github.com/ZanzyTHEbar/drafty-mcp/drafty"
	"github.com/ZanzyTHEbar/drafty-mcp/drafty/config"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// PostsPath is the collection endpoint for integration posts.
const PostsPath = "/api/integrations/posts"

// ErrMissingAPIKey is returned by NewClient when no credential is configured.
var ErrMissingAPIKey = errors.New("drafty API key is required")

type requestIDKey struct{}

// WithRequestID attaches id to ctx; Client.Do forwards it as X-Request-Id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func requestIDFrom(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok && id != "" {
		return id
	}
	return uuid.NewString()
}

// Client talks to the Drafty integrations API. It holds only immutable
// state and is safe for concurrent use.
type Client struct {
	baseURL    string
	apiKey     string
	userAgent  string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a client from the drafty section of the config.
func NewClient(cfg config.DraftyConfig, logger zerolog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = internal.DefaultBaseURL
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", base, err)
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = internal.DefaultUserAgent
	}

	return &Client{
		baseURL:   base,
		apiKey:    cfg.APIKey,
		userAgent: ua,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger.With().Str("component", "drafty_api").Logger(),
	}, nil
}

// Do sends req and returns the status and body. A non-2xx status is not an
// error here; only transport and encoding failures are.
func (c *Client) Do(ctx context.Context, req RemoteRequest) (RemoteResult, error) {
	endpoint := c.baseURL + req.Path
	if len(req.Query) > 0 {
		endpoint += "?" + req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return RemoteResult{}, fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, endpoint, body)
	if err != nil {
		return RemoteResult{}, fmt.Errorf("failed to create request: %w", err)
	}
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)
	httpReq.Header.Set("X-Request-Id", requestIDFrom(ctx))
	httpReq.Header.Set(internal.APIKeyHeader, c.apiKey)

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Debug().Err(err).Str("method", req.Method).Str("path", req.Path).Msg("request failed")
		return RemoteResult{}, fmt.Errorf("request to Drafty failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return RemoteResult{}, fmt.Errorf("failed to read response: %w", err)
	}

	c.logger.Debug().
		Str("method", req.Method).
		Str("path", req.Path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("drafty request completed")

	return RemoteResult{StatusCode: resp.StatusCode, Body: respBody}, nil
}

// CreatePost publishes a new post.
func (c *Client) CreatePost(ctx context.Context, in CreatePostRequest) (*PostRef, error) {
	res, err := c.Do(ctx, RemoteRequest{Method: http.MethodPost, Path: PostsPath, Body: in})
	if err != nil {
		return nil, err
	}
	if err := res.Err(); err != nil {
		return nil, err
	}
	var ref PostRef
	if err := res.Decode(&ref); err != nil {
		return nil, fmt.Errorf("failed to decode create post response: %w", err)
	}
	return &ref, nil
}

// ListPosts returns up to limit recent posts. A missing posts field yields
// an empty slice.
func (c *Client) ListPosts(ctx context.Context, limit float64) ([]Post, error) {
	res, err := c.Do(ctx, RemoteRequest{
		Method: http.MethodGet,
		Path:   PostsPath,
		Query:  url.Values{"limit": []string{FormatLimit(limit)}},
	})
	if err != nil {
		return nil, err
	}
	if err := res.Err(); err != nil {
		return nil, err
	}
	var out ListPostsResponse
	if err := res.Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode list posts response: %w", err)
	}
	return out.Posts, nil
}

// UpdatePost applies a partial update to the post identified by id.
func (c *Client) UpdatePost(ctx context.Context, id string, in UpdatePostRequest) (*PostRef, error) {
	res, err := c.Do(ctx, RemoteRequest{
		Method: http.MethodPatch,
		Path:   PostsPath + "/" + url.PathEscape(id),
		Body:   in,
	})
	if err != nil {
		return nil, err
	}
	if err := res.Err(); err != nil {
		return nil, err
	}
	var ref PostRef
	if err := res.Decode(&ref); err != nil {
		return nil, fmt.Errorf("failed to decode update post response: %w", err)
	}
	return &ref, nil
}
