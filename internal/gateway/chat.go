// chat.go - assistant queries
package gateway

import (
	"context"
	"net/http"

	"aghi-dashboard/internal/types"
)

// The API has read the question from both keys over time; both are sent.
type chatRequest struct {
	Message string `json:"message"`
	Query   string `json:"query"`
}

// Chat sends a free-text query to the assistant. Replies are never cached.
func (c *Client) Chat(ctx context.Context, query string) (types.ChatReply, error) {
	var out types.ChatReply
	err := c.uncached(ctx, http.MethodPost, "/chat", nil, chatRequest{Message: query, Query: query}, &out)
	return out, err
}
