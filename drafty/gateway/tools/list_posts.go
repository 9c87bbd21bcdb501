package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/drafty-mcp/drafty/api"
	ports "github.com/ZanzyTHEbar/drafty-mcp/drafty/gateway/ports"
)

// ListPostsArgs are the list_posts arguments.
type ListPostsArgs struct {
	Limit *float64 `json:"limit"`
}

// EffectiveLimit returns the limit to send; absent or zero means the default.
func (a ListPostsArgs) EffectiveLimit() float64 {
	if a.Limit == nil || *a.Limit == 0 {
		return DefaultListLimit
	}
	return *a.Limit
}

// ListPostsTool lists recent posts.
type ListPostsTool struct {
	client   PostsAPI
	location *time.Location
}

// NewListPostsTool creates the list_posts adapter. Dates are rendered in loc;
// nil means time.Local.
func NewListPostsTool(client PostsAPI, loc *time.Location) *ListPostsTool {
	if loc == nil {
		loc = time.Local
	}
	return &ListPostsTool{client: client, location: loc}
}

// Spec returns the catalog entry.
func (t *ListPostsTool) Spec() ports.ToolSpec {
	return ports.ToolSpec{
		Name:        ListPostsName,
		Description: "List recent blog posts from Drafty",
		JSONSchema:  []byte(ListPostsSchema),
	}
}

// Invoke executes list_posts.
func (t *ListPostsTool) Invoke(ctx context.Context, args json.RawMessage) ports.Result {
	var params ListPostsArgs
	if err := decodeArgs(ListPostsName, args, &params); err != nil {
		return ports.FailureFromError(err)
	}

	posts, err := t.client.ListPosts(ctx, params.EffectiveLimit())
	if err != nil {
		return remoteFailure("Failed to list posts", err)
	}

	return ports.Success(FormatPostList(posts, t.location))
}

// FormatPostList renders posts as a numbered Markdown list.
func FormatPostList(posts []api.Post, loc *time.Location) string {
	if len(posts) == 0 {
		return "No posts found."
	}

	entries := make([]string, 0, len(posts))
	for i, post := range posts {
		title := post.Title
		if title == "" {
			title = "Untitled"
		}
		entries = append(entries, fmt.Sprintf("%d. **%s**\n   ID: %s\n   URL: %s\n   Visibility: %s\n   Published: %s",
			i+1, title, post.ID, post.URL, post.Visibility, FormatPublished(post.PublishedAt, loc)))
	}

	return fmt.Sprintf("Found %d post(s):\n\n%s", len(posts), strings.Join(entries, "\n\n"))
}

// FormatPublished renders a timestamp as M/D/YYYY in loc, or "Invalid Date".
// Date-only values are taken as UTC midnight, offset-less date-times as
// local to loc.
func FormatPublished(ts string, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	ts = strings.TrimSpace(ts)
	if ts == "" {
		return "Invalid Date"
	}

	if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
		return t.In(loc).Format("1/2/2006")
	}
	if t, err := time.Parse("2006-01-02", ts); err == nil {
		return t.In(loc).Format("1/2/2006")
	}
	for _, layout := range []string{"2006-01-02T15:04:05.999999999", "2006-01-02T15:04"} {
		if t, err := time.ParseInLocation(layout, ts, loc); err == nil {
			return t.Format("1/2/2006")
		}
	}
	return "Invalid Date"
}

var _ ports.Tool = (*ListPostsTool)(nil)
