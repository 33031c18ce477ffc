package types

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ID is a product/shop/blog identifier normalized to one canonical string
// form at the decode boundary. Upstream sources are inconsistent about id
// typing (JSON numbers vs strings), so the type accepts both on unmarshal and
// NormalizeID accepts any runtime representation for lookups.
type ID string

func (id ID) String() string {
	return string(id)
}

func (id ID) IsZero() bool {
	return id == ""
}

func (id *ID) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	normalized, ok := normalize(raw)
	if !ok {
		return fmt.Errorf("unsupported id value %s", string(data))
	}
	*id = ID(normalized)
	return nil
}

func (id ID) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(id))
}

// NormalizeID canonicalizes any plausible id representation. Numeric strings
// and numbers collapse onto the same key so a cache populated under 42 is hit
// by "42" and vice versa.
func NormalizeID(value any) ID {
	normalized, ok := normalize(value)
	if !ok {
		return ""
	}
	return ID(normalized)
}

func normalize(value any) (string, bool) {
	switch v := value.(type) {
	case nil:
		return "", false
	case ID:
		return normalize(string(v))
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return "", false
		}
		// Integral numeric strings lose leading zeros and sign noise so they
		// collide with their numeric form.
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return strconv.FormatInt(n, 10), true
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil && f == float64(int64(f)) {
			return strconv.FormatInt(int64(f), 10), true
		}
		return s, true
	case float64:
		if v == float64(int64(v)) {
			return strconv.FormatInt(int64(v), 10), true
		}
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case float32:
		return normalize(float64(v))
	case int:
		return strconv.Itoa(v), true
	case int32:
		return strconv.FormatInt(int64(v), 10), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case uint64:
		return strconv.FormatUint(v, 10), true
	case json.Number:
		return normalize(string(v))
	default:
		return "", false
	}
}
