// rankings.go - top/bottom performer fetching
package gateway

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"aghi-dashboard/internal/types"
)

// Rankings fetches top and bottom performers at level. An empty state or
// National leaves the query unscoped.
func (c *Client) Rankings(ctx context.Context, level types.MapLevel, limit int, state string) (types.Rankings, error) {
	q := url.Values{
		"level": {string(level)},
		"limit": {strconv.Itoa(limit)},
	}
	if state != "" && state != types.National {
		q.Set("state", state)
	}
	var out types.Rankings
	err := c.cached(ctx, http.MethodGet, "/rankings", q, nil, &out)
	return out, err
}
