// map_data.go - choropleth data fetching
package gateway

import (
	"context"
	"net/http"
	"net/url"

	"aghi-dashboard/internal/types"
)

func mapDataQuery(level types.MapLevel) url.Values {
	return url.Values{"level": {string(level)}}
}

// MapData fetches every region record at the given granularity.
func (c *Client) MapData(ctx context.Context, level types.MapLevel) ([]types.RegionRecord, error) {
	var out []types.RegionRecord
	err := c.cached(ctx, http.MethodGet, "/map-data", mapDataQuery(level), nil, &out)
	return out, err
}

// CachedMapData returns the map data for level only if the cache already
// holds a fresh copy. It never touches the network.
func (c *Client) CachedMapData(level types.MapLevel) ([]types.RegionRecord, bool) {
	var out []types.RegionRecord
	if !c.peek(http.MethodGet, "/map-data", mapDataQuery(level), &out) {
		return nil, false
	}
	return out, true
}
