package tools

// Tool names. The set is closed.
const (
	CreatePostName = "create_post"
	ListPostsName  = "list_posts"
	UpdatePostName = "update_post"
)

// DefaultListLimit is used when list_posts gets no (or a zero) limit.
const DefaultListLimit = 10

// CreatePostSchema defines the JSON schema for create_post arguments.
const CreatePostSchema = `{
  "type": "object",
  "properties": {
    "title": {
      "type": "string",
      "description": "Post title"
    },
    "content": {
      "type": "string",
      "description": "Post content in Markdown format"
    },
    "visibility": {
      "type": "string",
      "enum": ["public", "unlisted", "private"],
      "default": "public",
      "description": "Post visibility setting"
    },
    "tags": {
      "type": "array",
      "items": { "type": "string" },
      "description": "Optional tags for the post"
    }
  },
  "required": ["title", "content"]
}`

// ListPostsSchema defines the JSON schema for list_posts arguments.
const ListPostsSchema = `{
  "type": "object",
  "properties": {
    "limit": {
      "type": "number",
      "default": 10,
      "description": "Maximum number of posts to return"
    }
  }
}`

// UpdatePostSchema defines the JSON schema for update_post arguments.
const UpdatePostSchema = `{
  "type": "object",
  "properties": {
    "postId": {
      "type": "string",
      "description": "ID of the post to update"
    },
    "title": {
      "type": "string",
      "description": "New post title"
    },
    "content": {
      "type": "string",
      "description": "New post content in Markdown"
    },
    "visibility": {
      "type": "string",
      "enum": ["public", "unlisted", "private"],
      "description": "New visibility setting"
    },
    "tags": {
      "type": "array",
      "items": { "type": "string" },
      "description": "New tags"
    }
  },
  "required": ["postId"]
}`
