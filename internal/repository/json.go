package repository

import "encoding/json"

// mergeJSON overlays the fields of overlay onto base, mirroring the jsonb
// concatenation the Postgres settings table uses.
func mergeJSON(base, overlay []byte) ([]byte, error) {
	if len(base) == 0 {
		result := make([]byte, len(overlay))
		copy(result, overlay)
		return result, nil
	}

	var baseMap, overlayMap map[string]json.RawMessage
	if err := json.Unmarshal(base, &baseMap); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(overlay, &overlayMap); err != nil {
		return nil, err
	}
	for key, value := range overlayMap {
		baseMap[key] = value
	}
	return json.Marshal(baseMap)
}
