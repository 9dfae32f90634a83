// briefing.go - executive briefing generation
package gateway

import (
	"context"
	"net/http"

	"aghi-dashboard/internal/types"
)

type briefingRequest struct {
	State string `json:"state"`
}

// Briefing asks the API for an executive briefing on region. The request is
// a POST but its result is deterministic per region, so it is cached under a
// key that includes the body.
func (c *Client) Briefing(ctx context.Context, region string) (types.Briefing, error) {
	if region == "" {
		region = types.National
	}
	var out types.Briefing
	err := c.cached(ctx, http.MethodPost, "/generate-briefing", nil, briefingRequest{State: region}, &out)
	return out, err
}
