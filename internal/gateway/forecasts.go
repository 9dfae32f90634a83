// forecasts.go - AGHI projections
package gateway

import (
	"context"
	"net/http"

	"aghi-dashboard/internal/types"
)

// Forecasts fetches the six-month projections for the best and worst states.
func (c *Client) Forecasts(ctx context.Context) (types.Forecasts, error) {
	var out types.Forecasts
	err := c.cached(ctx, http.MethodGet, "/forecasts", nil, nil, &out)
	return out, err
}
