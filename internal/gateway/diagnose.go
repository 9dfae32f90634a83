// diagnose.go - root-cause diagnosis
package gateway

import (
	"context"
	"net/http"

	"aghi-dashboard/internal/types"
)

type diagnoseRequest struct {
	State string `json:"state"`
}

// Diagnose asks for the weakest pillar of region and its likely cause. Like
// the briefing, it is cached under a key that includes the body.
func (c *Client) Diagnose(ctx context.Context, region string) (types.Diagnosis, error) {
	if region == "" {
		region = types.National
	}
	var out types.Diagnosis
	err := c.cached(ctx, http.MethodPost, "/diagnose", nil, diagnoseRequest{State: region}, &out)
	return out, err
}
