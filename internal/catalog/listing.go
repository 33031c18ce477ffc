package catalog

import (
	"bytes"
	"encoding/json"

	pkgerrors "github.com/lunamarket/storefront-client/pkg/errors"
)

// decodeListing tolerates the two listing shapes backends produce: a bare
// JSON array, or an object holding the array under one of the given keys
// with optional total and page fields.
func decodeListing(raw json.RawMessage, items any, total, page *int, keys ...string) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}

	if raw[0] == '[' {
		if err := json.Unmarshal(raw, items); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDecode, err, "decoding listing")
		}
		return nil
	}

	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(raw, &wrapper); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDecode, err, "decoding listing")
	}

	for _, key := range keys {
		entry, ok := wrapper[key]
		if !ok || string(entry) == "null" {
			continue
		}
		if err := json.Unmarshal(entry, items); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDecode, err, "decoding listing items")
		}
		break
	}

	if entry, ok := wrapper["total"]; ok && total != nil {
		_ = json.Unmarshal(entry, total)
	}
	if entry, ok := wrapper["page"]; ok && page != nil {
		_ = json.Unmarshal(entry, page)
	}
	return nil
}
