package api

import (
	"context"

	"github.com/lunamarket/storefront-client/internal/session"
)

// attachAuth is the request-side interceptor. It resolves which identity the
// request authenticates as, renews an expired token before use, and leaves
// anonymous requests untouched.
func (c *Client) attachAuth(ctx context.Context, req *Request) error {
	if req.SkipAuth || req.Path == c.refreshPath {
		return nil
	}

	// A manually pre-set Authorization header is matched against the stored
	// customer token by value: components that build the header themselves
	// still get a renewed token when the stored one has expired.
	if manual := req.Header.Get(headerAuthorization); manual != "" {
		req.authMode = session.ModeCustomer
		customer, err := c.tokens.Customer(ctx)
		if err != nil {
			return err
		}
		if customer.HasAccess() && manual == bearer(customer.AccessToken) && c.tokens.IsExpired(customer.AccessToken) {
			token, refreshErr := c.refreshShared(ctx, session.ModeCustomer)
			if refreshErr != nil {
				c.logg.Warn(ctx, "pre-set token refresh failed, deferring to response handling")
				return nil
			}
			req.Header.Set(headerAuthorization, bearer(token))
		}
		return nil
	}

	mode := c.session.Mode(ctx)
	if req.UseMerchant {
		mode = session.ModeMerchant
	}
	req.authMode = mode

	pair, err := c.session.PairFor(ctx, mode)
	if err != nil {
		return err
	}
	if !pair.HasAccess() {
		// Anonymous request; the backend decides whether that is acceptable.
		return nil
	}

	token := pair.AccessToken
	if c.tokens.IsExpired(token) {
		refreshed, refreshErr := c.refreshShared(ctx, mode)
		if refreshErr != nil {
			// Send the stale token and let the response-side retry recover.
			c.logg.Warn(ctx, "token refresh failed, deferring to response handling")
		} else {
			token = refreshed
		}
	}

	req.Header.Set(headerAuthorization, bearer(token))
	return nil
}
