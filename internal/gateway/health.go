// health.go - API liveness
package gateway

import (
	"context"
	"net/http"

	"aghi-dashboard/internal/types"
)

// Health checks that the API is up and has data loaded. Never cached.
func (c *Client) Health(ctx context.Context) (types.Health, error) {
	var out types.Health
	err := c.uncached(ctx, http.MethodGet, "/health", nil, nil, &out)
	return out, err
}
