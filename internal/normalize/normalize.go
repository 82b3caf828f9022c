// Package normalize converts loosely-typed event property values into the
// nullable text form the store persists.
package normalize

import (
	"encoding/json"
	"fmt"
	"log"
	"strconv"
)

// Value converts one property value of unknown shape to nullable text.
// nil stays nil (stored as SQL NULL), scalars take their natural text form,
// and anything structured is serialized to JSON. A value that cannot be
// marshaled falls back to its fmt representation; Value never fails.
func Value(v any) *string {
	if v == nil {
		return nil
	}

	var s string
	switch t := v.(type) {
	case string:
		s = t
	case bool:
		s = strconv.FormatBool(t)
	case float64:
		// JSON numbers decode as float64; 'g' keeps 42 as "42", not "42.0".
		s = strconv.FormatFloat(t, 'g', -1, 64)
	case float32:
		s = strconv.FormatFloat(float64(t), 'g', -1, 32)
	case int:
		s = strconv.Itoa(t)
	case int64:
		s = strconv.FormatInt(t, 10)
	case json.Number:
		s = t.String()
	default:
		b, err := json.Marshal(t)
		if err != nil {
			log.Printf("normalize: failed to serialize property value, using fmt form: %v", err)
			s = fmt.Sprintf("%v", t)
		} else {
			s = string(b)
		}
	}
	return &s
}

// Properties normalizes every value of an incoming properties map.
// A nil map yields an empty (non-nil) map.
func Properties(in map[string]any) map[string]*string {
	out := make(map[string]*string, len(in))
	for k, v := range in {
		out[k] = Value(v)
	}
	return out
}
