package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// Visibility values accepted by the Drafty API.
const (
	VisibilityPublic   = "public"
	VisibilityUnlisted = "unlisted"
	VisibilityPrivate  = "private"
)

// Visibilities lists every accepted visibility in schema order.
var Visibilities = []string{VisibilityPublic, VisibilityUnlisted, VisibilityPrivate}

// RemoteRequest is everything needed to issue one call against the API.
// Credential and content headers are added by Client.Do.
type RemoteRequest struct {
	Method string
	Path   string
	Query  url.Values
	Body   any // JSON-encoded when non-nil
}

// RemoteResult is the raw outcome of a completed HTTP round trip.
type RemoteResult struct {
	StatusCode int
	Body       []byte
}

// OK reports whether the status is in the 2xx range.
func (r RemoteResult) OK() bool {
	return r.StatusCode >= http.StatusOK && r.StatusCode < http.StatusMultipleChoices
}

// Decode unmarshals the body into v.
func (r RemoteResult) Decode(v any) error {
	dec := json.NewDecoder(bytes.NewReader(r.Body))
	if err := dec.Decode(v); err != nil {
		return err
	}
	return nil
}

// Err returns a *StatusError for non-2xx results and nil otherwise.
func (r RemoteResult) Err() error {
	if r.OK() {
		return nil
	}
	return &StatusError{StatusCode: r.StatusCode, Body: string(r.Body)}
}

// StatusError is returned when the API answers with a non-2xx status.
// Body holds the response text verbatim.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("drafty API returned status %d: %s", e.StatusCode, e.Body)
}

// CreatePostRequest is the POST /api/integrations/posts body.
// Title and Content are pointers so an absent argument stays absent on the wire.
type CreatePostRequest struct {
	Title      *string  `json:"title,omitempty"`
	Content    *string  `json:"content,omitempty"`
	Visibility string   `json:"visibility"`
	Tags       []string `json:"tags"`
}

// UpdatePostRequest is the sparse PATCH body; nil fields are not sent.
type UpdatePostRequest struct {
	Title      *string   `json:"title,omitempty"`
	Content    *string   `json:"content,omitempty"`
	Visibility *string   `json:"visibility,omitempty"`
	Tags       *[]string `json:"tags,omitempty"`
}

// Empty reports whether no field would be sent.
func (r UpdatePostRequest) Empty() bool {
	return r.Title == nil && r.Content == nil && r.Visibility == nil && r.Tags == nil
}

// PostRef is the body returned by create and update.
type PostRef struct {
	ID  PostID `json:"id,omitempty"`
	URL string `json:"url"`
}

// Post is a single entry of the list response.
type Post struct {
	ID          PostID `json:"id"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Visibility  string `json:"visibility"`
	PublishedAt string `json:"publishedAt"`
}

// ListPostsResponse is the GET /api/integrations/posts body.
type ListPostsResponse struct {
	Posts []Post `json:"posts"`
}

// PostID accepts both JSON strings and numbers.
type PostID string

func (id *PostID) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = PostID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("post id must be a string or number: %w", err)
	}
	*id = PostID(n.String())
	return nil
}

// FormatLimit renders a numeric limit in shortest decimal form (10, 2.5).
func FormatLimit(limit float64) string {
	return strconv.FormatFloat(limit, 'f', -1, 64)
}
