package persistence

import (
	json "github.com/goccy/go-json"
)

// jsonParam encodes v for a jsonb parameter. lib/pq sends []byte as bytea, so the text form is used.
func jsonParam(v interface{}) (interface{}, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if string(b) == "null" {
		return nil, nil
	}
	return string(b), nil
}

func decodeJSONColumn(raw []byte, dest interface{}) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return json.Unmarshal(raw, dest)
}
