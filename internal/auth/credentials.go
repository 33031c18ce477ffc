package auth

import (
	"encoding/json"

	pkgerrors "github.com/lunamarket/storefront-client/pkg/errors"
)

// credentials is the normalized result of parsing an auth response.
type credentials struct {
	AccessToken  string
	RefreshToken string
	User         json.RawMessage
}

// credentialPayload tolerates the response shapes different backend versions
// produce: top-level camelCase or snake_case token fields, a nested tokens
// object, and the user under either user or customer.
type credentialPayload struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	AccessSnake  string `json:"access_token"`
	RefreshSnake string `json:"refresh_token"`
	Token        string `json:"token"`

	Tokens *credentialPayload `json:"tokens"`

	User     json.RawMessage `json:"user"`
	Customer json.RawMessage `json:"customer"`
}

// parseCredentials extracts a token pair from whichever shape the backend
// used. A payload with no recognizable access token is a decode failure, not
// a silent empty session.
func parseCredentials(raw []byte) (credentials, error) {
	if len(raw) == 0 {
		return credentials{}, pkgerrors.New(pkgerrors.CodeDecode, "empty credentials response")
	}

	var payload credentialPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return credentials{}, pkgerrors.Wrap(pkgerrors.CodeDecode, err, "decoding credentials response")
	}

	access, refresh := payload.resolveTokens()
	if access == "" {
		return credentials{}, pkgerrors.New(pkgerrors.CodeDecode, "credentials response carries no access token")
	}

	user := payload.User
	if len(user) == 0 || string(user) == "null" {
		user = payload.Customer
	}
	if string(user) == "null" {
		user = nil
	}

	return credentials{AccessToken: access, RefreshToken: refresh, User: user}, nil
}

func (p credentialPayload) resolveTokens() (access, refresh string) {
	access = p.AccessToken
	if access == "" {
		access = p.AccessSnake
	}
	if access == "" {
		access = p.Token
	}
	refresh = p.RefreshToken
	if refresh == "" {
		refresh = p.RefreshSnake
	}
	if access == "" && p.Tokens != nil {
		return p.Tokens.resolveTokens()
	}
	return access, refresh
}
