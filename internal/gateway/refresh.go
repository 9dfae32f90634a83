// refresh.go - server-side reprocessing
package gateway

import (
	"context"
	"net/http"
)

// RefreshAck is the API's answer to a reprocessing request.
type RefreshAck struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// RefreshData asks the API to reprocess its data. The response cache is
// cleared whether or not the API accepted, since a refresh was requested
// either way.
func (c *Client) RefreshData(ctx context.Context) (RefreshAck, error) {
	var ack RefreshAck
	err := c.uncached(ctx, http.MethodPost, "/refresh-data", nil, nil, &ack)
	c.ClearCache()
	return ack, err
}
