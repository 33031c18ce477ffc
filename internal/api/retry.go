package api

import (
	"context"
)

// retryOnce is the response-side interceptor: one refresh-then-retry cycle
// for an auth-class response, guarded by the request's retried flag so an
// already-retried request is never re-issued again.
func (c *Client) retryOnce(ctx context.Context, req *Request, out any, status int, body []byte) error {
	original := errorFromResponse(status, body)
	req.retried = true

	pair, err := c.session.PairFor(ctx, req.authMode)
	if err != nil || !pair.HasRefresh() {
		// Nothing to recover with; propagate what the backend said.
		return original
	}

	c.metrics.IncRetry()
	token, err := c.refresh(ctx, req.authMode)
	if err != nil {
		return err
	}

	req.Header.Set(headerAuthorization, bearer(token))
	retryStatus, retryBody, err := c.send(ctx, req)
	if err != nil {
		return err
	}
	return c.finish(retryStatus, retryBody, out)
}
