package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ZanzyTHEbar/drafty-mcp/drafty/api"
	ports "github.com/ZanzyTHEbar/drafty-mcp/drafty/gateway/ports"
)

// CreatePostArgs are the create_post arguments. Title and Content stay nil
// when the caller omitted them.
type CreatePostArgs struct {
	Title      *string  `json:"title"`
	Content    *string  `json:"content"`
	Visibility string   `json:"visibility"`
	Tags       []string `json:"tags"`
}

// Request substitutes defaults for the optional fields.
func (a CreatePostArgs) Request() api.CreatePostRequest {
	req := api.CreatePostRequest{
		Title:      a.Title,
		Content:    a.Content,
		Visibility: a.Visibility,
		Tags:       a.Tags,
	}
	if req.Visibility == "" {
		req.Visibility = api.VisibilityPublic
	}
	if req.Tags == nil {
		req.Tags = []string{}
	}
	return req
}

// CreatePostTool publishes a new post.
type CreatePostTool struct {
	client PostsAPI
}

// NewCreatePostTool creates the create_post adapter.
func NewCreatePostTool(client PostsAPI) *CreatePostTool {
	return &CreatePostTool{client: client}
}

// Spec returns the catalog entry.
func (t *CreatePostTool) Spec() ports.ToolSpec {
	return ports.ToolSpec{
		Name:        CreatePostName,
		Description: "Create and publish a new blog post on Drafty",
		JSONSchema:  []byte(CreatePostSchema),
	}
}

// Invoke executes create_post.
func (t *CreatePostTool) Invoke(ctx context.Context, args json.RawMessage) ports.Result {
	var params CreatePostArgs
	if err := decodeArgs(CreatePostName, args, &params); err != nil {
		return ports.FailureFromError(err)
	}

	req := params.Request()
	ref, err := t.client.CreatePost(ctx, req)
	if err != nil {
		return remoteFailure("Failed to create post", err)
	}

	title := ""
	if params.Title != nil {
		title = *params.Title
	}
	return ports.Success(fmt.Sprintf("✅ Post created successfully!\n\nTitle: %s\nURL: %s\nVisibility: %s",
		title, ref.URL, req.Visibility))
}

var _ ports.Tool = (*CreatePostTool)(nil)
