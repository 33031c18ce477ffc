package api

import (
	"context"
	"net/http"

	"github.com/lunamarket/storefront-client/internal/session"
	pkgerrors "github.com/lunamarket/storefront-client/pkg/errors"
)

// refreshShared coordinates token renewal through a single-flight group: at
// most one refresh call per identity is in flight, and every caller that
// arrives while it is pending shares its result instead of issuing another.
func (c *Client) refreshShared(ctx context.Context, mode session.Mode) (string, error) {
	value, err, _ := c.refreshGroup.Do(string(mode), func() (any, error) {
		return c.refresh(ctx, mode)
	})
	if err != nil {
		return "", err
	}
	return value.(string), nil
}

// refresh performs one renewal round-trip and persists the resulting pair.
// The response-side retry path calls this directly, bypassing the coordinator.
func (c *Client) refresh(ctx context.Context, mode session.Mode) (string, error) {
	pair, err := c.session.PairFor(ctx, mode)
	if err != nil {
		return "", err
	}
	if !pair.HasRefresh() {
		c.metrics.IncRefresh("missing_token")
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "no refresh token available")
	}

	req := &Request{
		Method:   http.MethodPost,
		Path:     c.refreshPath,
		Body:     map[string]string{"refreshToken": pair.RefreshToken},
		Header:   http.Header{},
		SkipAuth: true,
	}
	status, body, err := c.send(ctx, req)
	if err != nil {
		c.metrics.IncRefresh("failure")
		return "", err
	}
	if status < 200 || status >= 300 {
		c.metrics.IncRefresh("failure")
		return "", errorFromResponse(status, body)
	}

	var payload credentialTokens
	if err := decodePayload(body, &payload); err != nil {
		c.metrics.IncRefresh("failure")
		return "", err
	}
	access, refresh := payload.resolve()
	if access == "" {
		c.metrics.IncRefresh("failure")
		return "", pkgerrors.New(pkgerrors.CodeDecode, "refresh response missing access token")
	}
	if refresh == "" {
		// Backend did not rotate; keep the refresh token we already hold.
		refresh = pair.RefreshToken
	}

	if err := c.persistPair(ctx, mode, access, refresh); err != nil {
		c.metrics.IncRefresh("failure")
		return "", err
	}

	c.metrics.IncRefresh("success")
	c.logg.Debug(c.logg.WithAuthMode(ctx, string(mode)), "access token renewed")
	return access, nil
}

func (c *Client) persistPair(ctx context.Context, mode session.Mode, access, refresh string) error {
	if mode == session.ModeMerchant {
		return c.tokens.SetMerchant(ctx, access, refresh)
	}
	return c.tokens.SetCustomer(ctx, access, refresh)
}

// credentialTokens tolerates the token field spellings seen in the wild:
// camelCase, snake_case, and a nested tokens object.
type credentialTokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	AccessSnake  string `json:"access_token"`
	RefreshSnake string `json:"refresh_token"`

	Tokens *credentialTokens `json:"tokens"`
}

func (p credentialTokens) resolve() (access, refresh string) {
	access = p.AccessToken
	if access == "" {
		access = p.AccessSnake
	}
	refresh = p.RefreshToken
	if refresh == "" {
		refresh = p.RefreshSnake
	}
	if access == "" && p.Tokens != nil {
		return p.Tokens.resolve()
	}
	return access, refresh
}
