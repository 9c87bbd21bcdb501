package tools

import (
	"context"
	"encoding/json"

	"github.com/ZanzyTHEbar/drafty-mcp/drafty/api"
	ports "github.com/ZanzyTHEbar/drafty-mcp/drafty/gateway/ports"
)

// UpdatePostArgs are the update_post arguments.
type UpdatePostArgs struct {
	PostID     string    `json:"postId"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Visibility string    `json:"visibility"`
	Tags       *[]string `json:"tags"`
}

// Request builds the sparse PATCH body. Empty strings count as absent; a
// present tags array is sent even when empty.
func (a UpdatePostArgs) Request() api.UpdatePostRequest {
	var req api.UpdatePostRequest
	if a.Title != "" {
		req.Title = &a.Title
	}
	if a.Content != "" {
		req.Content = &a.Content
	}
	if a.Visibility != "" {
		req.Visibility = &a.Visibility
	}
	if a.Tags != nil {
		req.Tags = a.Tags
	}
	return req
}

// UpdatePostTool applies partial updates to an existing post.
type UpdatePostTool struct {
	client PostsAPI
}

// NewUpdatePostTool creates the update_post adapter.
func NewUpdatePostTool(client PostsAPI) *UpdatePostTool {
	return &UpdatePostTool{client: client}
}

// Spec returns the catalog entry.
func (t *UpdatePostTool) Spec() ports.ToolSpec {
	return ports.ToolSpec{
		Name:        UpdatePostName,
		Description: "Update an existing Drafty post",
		JSONSchema:  []byte(UpdatePostSchema),
	}
}

// Invoke executes update_post.
func (t *UpdatePostTool) Invoke(ctx context.Context, args json.RawMessage) ports.Result {
	var params UpdatePostArgs
	if err := decodeArgs(UpdatePostName, args, &params); err != nil {
		return ports.FailureFromError(err)
	}

	ref, err := t.client.UpdatePost(ctx, params.PostID, params.Request())
	if err != nil {
		return remoteFailure("Failed to update post", err)
	}

	return ports.Success("✅ Post updated successfully!\n\nURL: " + ref.URL)
}

var _ ports.Tool = (*UpdatePostTool)(nil)
