// internal/infrastructure/backend/envelope.go
package backend

import (
	"encoding/json"
	"fmt"
)

// UnwrapList extracts a JSON array from the response shapes the backend is
// known to produce for list endpoints. Accepted shapes, in priority order:
//
//  1. a bare array: [...]
//  2. a keyed object: {"<key>": [...]}
//  3. a data envelope: {"data": [...]}
//  4. a nested envelope: {"data": {"<key>": [...]}}
//
// The first shape that matches wins. Anything else is an error rather than an
// empty list, so callers can tell "malformed" apart from "no rows".
func UnwrapList(payload json.RawMessage, key string) (json.RawMessage, error) {
	var bare []json.RawMessage
	if err := json.Unmarshal(payload, &bare); err == nil {
		return payload, nil
	}

	var keyed map[string]json.RawMessage
	if err := json.Unmarshal(payload, &keyed); err != nil {
		return nil, fmt.Errorf("unrecognized list payload: %w", err)
	}

	if raw, ok := keyed[key]; ok && isArray(raw) {
		return raw, nil
	}

	data, ok := keyed["data"]
	if !ok {
		return nil, fmt.Errorf("list payload has neither %q nor \"data\"", key)
	}
	if isArray(data) {
		return data, nil
	}

	var nested map[string]json.RawMessage
	if err := json.Unmarshal(data, &nested); err != nil {
		return nil, fmt.Errorf("unrecognized \"data\" payload: %w", err)
	}
	if raw, ok := nested[key]; ok && isArray(raw) {
		return raw, nil
	}

	return nil, fmt.Errorf("list payload \"data\" object has no %q array", key)
}

// UnwrapObject extracts a single JSON object, accepting either a bare object
// or a {"data": {...}} envelope.
func UnwrapObject(payload json.RawMessage) (json.RawMessage, error) {
	var keyed map[string]json.RawMessage
	if err := json.Unmarshal(payload, &keyed); err != nil {
		return nil, fmt.Errorf("unrecognized object payload: %w", err)
	}
	if data, ok := keyed["data"]; ok && !isArray(data) {
		return data, nil
	}
	return payload, nil
}

func isArray(raw json.RawMessage) bool {
	var probe []json.RawMessage
	return json.Unmarshal(raw, &probe) == nil
}
