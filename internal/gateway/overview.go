// overview.go - national KPI data fetching
package gateway

import (
	"context"
	"net/http"

	"aghi-dashboard/internal/types"
)

// Overview fetches the national KPI summary.
func (c *Client) Overview(ctx context.Context) (types.Overview, error) {
	var out types.Overview
	err := c.cached(ctx, http.MethodGet, "/overview", nil, nil, &out)
	return out, err
}
