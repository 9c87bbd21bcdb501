package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ZanzyTHEbar/drafty-mcp/drafty/api"
	ports "github.com/ZanzyTHEbar/drafty-mcp/drafty/gateway/ports"
)

// PostsAPI is the subset of the Drafty client the adapters need.
type PostsAPI interface {
	CreatePost(ctx context.Context, in api.CreatePostRequest) (*api.PostRef, error)
	ListPosts(ctx context.Context, limit float64) ([]api.Post, error)
	UpdatePost(ctx context.Context, id string, in api.UpdatePostRequest) (*api.PostRef, error)
}

var _ PostsAPI = (*api.Client)(nil)

// decodeArgs unmarshals raw tool arguments into dst. Empty input is treated
// as an empty object.
func decodeArgs(tool string, args json.RawMessage, dst any) error {
	trimmed := bytes.TrimSpace(args)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		trimmed = []byte("{}")
	}
	if err := json.Unmarshal(trimmed, dst); err != nil {
		return fmt.Errorf("invalid arguments for %s: %w", tool, err)
	}
	return nil
}

// remoteFailure maps a client error to a Result. Non-2xx answers get the
// operation prefix and the verbatim body; anything else keeps its message.
func remoteFailure(prefix string, err error) ports.Result {
	var statusErr *api.StatusError
	if errors.As(err, &statusErr) {
		return ports.Failure(prefix + ": " + statusErr.Body)
	}
	return ports.FailureFromError(err)
}
