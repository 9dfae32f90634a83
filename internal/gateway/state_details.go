// state_details.go - per-state drill-down data
package gateway

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"aghi-dashboard/internal/types"
)

// StateDetails fetches the latest score, district ranking and monthly trend
// of one state. There is no national variant.
func (c *Client) StateDetails(ctx context.Context, state string) (types.StateDetails, error) {
	var out types.StateDetails
	if state == "" || state == types.National {
		return out, errors.New("state details need a state")
	}
	err := c.cached(ctx, http.MethodGet, "/state/"+url.PathEscape(state), nil, nil, &out)
	return out, err
}
