package query

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
)

// Filters maps inventory query parameter names to values as produced by
// the LLM. Values are JSON scalars, arrays or objects; numbers keep their
// original text.
type Filters map[string]any

// ParseFilters decodes the LLM's content string. An empty string yields
// empty filters; null values are dropped.
func ParseFilters(content string) (Filters, error) {
	filters := Filters{}
	if content == "" {
		return filters, nil
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(content)))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("filters are not a JSON object: %w", err)
	}
	if dec.More() {
		return nil, fmt.Errorf("filters contain trailing data")
	}

	for k, v := range raw {
		if v != nil {
			filters[k] = v
		}
	}
	return filters, nil
}

// Values encodes the filters as query parameters. Arrays repeat the key,
// booleans are "true"/"false" and objects are sent as JSON text.
func (f Filters) Values() url.Values {
	values := make(url.Values, len(f))

	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		switch v := f[k].(type) {
		case []any:
			for _, item := range v {
				if item != nil {
					values.Add(k, formatValue(item))
				}
			}
		default:
			values.Set(k, formatValue(v))
		}
	}
	return values
}

func formatValue(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		if v {
			return "true"
		}
		return "false"
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(b)
	}
}
