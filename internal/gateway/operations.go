// operations.go - SLA, failure and watchlist fetching
package gateway

import (
	"context"
	"net/http"
	"net/url"

	"aghi-dashboard/internal/types"
)

// Operations fetches operational metrics for region.
func (c *Client) Operations(ctx context.Context, region string) (types.OperationsData, error) {
	if region == "" {
		region = types.National
	}
	var out types.OperationsData
	err := c.cached(ctx, http.MethodGet, "/operations", url.Values{"state": {region}}, nil, &out)
	return out, err
}
