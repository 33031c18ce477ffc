package api

import (
	"encoding/json"

	pkgerrors "github.com/lunamarket/storefront-client/pkg/errors"
	"github.com/lunamarket/storefront-client/pkg/types"
)

// decodePayload unwraps the {"status":"OK","data":...} envelope when present
// and decodes the payload into out. Bare payloads (no envelope) decode as-is.
func decodePayload(body []byte, out any) error {
	if out == nil || len(body) == 0 {
		return nil
	}

	var env types.Envelope
	if err := json.Unmarshal(body, &env); err == nil && (env.Status != "" || len(env.Data) > 0) {
		if len(env.Data) == 0 || string(env.Data) == "null" {
			return nil
		}
		if err := json.Unmarshal(env.Data, out); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDecode, err, "decoding response data")
		}
		return nil
	}

	if err := json.Unmarshal(body, out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDecode, err, "decoding response")
	}
	return nil
}

// errorFromResponse maps an HTTP error status plus whatever message body the
// backend sent onto the typed taxonomy.
func errorFromResponse(status int, body []byte) error {
	var parsed types.ErrorBody
	if len(body) > 0 {
		// Best effort; an unparseable body falls back to the public message.
		_ = json.Unmarshal(body, &parsed)
	}
	return pkgerrors.FromResponse(status, parsed.Text())
}
