// trends.go - monthly series fetching
package gateway

import (
	"context"
	"net/http"
	"net/url"

	"aghi-dashboard/internal/types"
)

// Trends fetches the monthly series for region, optionally narrowed to one
// of its districts.
func (c *Client) Trends(ctx context.Context, region, district string) ([]types.TrendPoint, error) {
	if region == "" {
		region = types.National
	}
	q := url.Values{"state": {region}}
	if district != "" {
		q.Set("district", district)
	}
	var out []types.TrendPoint
	err := c.cached(ctx, http.MethodGet, "/trends", q, nil, &out)
	return out, err
}
