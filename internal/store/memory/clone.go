package memory

import "time"

func nowValue() time.Time { return time.Now().UTC() }

// deepClone copies a document payload so callers and watchers never alias
// internal state. Only the value shapes the engine actually stores are
// handled; anything else is assumed immutable and copied by reference.
func deepClone(src map[string]any) map[string]any {
	if src == nil {
		return map[string]any{}
	}
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = cloneValue(v)
	}
	return dst
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return deepClone(t)
	case map[string]float64:
		m := make(map[string]float64, len(t))
		for k, f := range t {
			m[k] = f
		}
		return m
	case []string:
		out := make([]string, len(t))
		copy(out, t)
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}
