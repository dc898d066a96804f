package localstore

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// Encode serialises v as base64(JSON). This only keeps values from being casually readable; it is not encryption.
func Encode(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding value: %w", err)
	}

	out := make([]byte, base64.StdEncoding.EncodedLen(len(raw)))
	base64.StdEncoding.Encode(out, raw)

	return out, nil
}

// Decode reads a value written by Encode. Plain JSON is accepted too.
// Missing and unreadable data are indistinguishable: both report false and leave the zero value.
func Decode[T any](data []byte) (T, bool) {
	var v T

	if len(data) == 0 {
		return v, false
	}

	if raw, err := base64.StdEncoding.DecodeString(string(data)); err == nil {
		if err := json.Unmarshal(raw, &v); err == nil {
			return v, true
		}

		var zero T
		v = zero
	}

	if err := json.Unmarshal(data, &v); err == nil {
		return v, true
	}

	var zero T

	return zero, false
}
