// anomalies.go - alert feed fetching
package gateway

import (
	"context"
	"net/http"

	"aghi-dashboard/internal/types"
)

// Anomalies fetches the national priority interventions. Alerts are not
// region scoped.
func (c *Client) Anomalies(ctx context.Context) (types.Anomalies, error) {
	var out types.Anomalies
	err := c.cached(ctx, http.MethodGet, "/anomalies", nil, nil, &out)
	return out, err
}
