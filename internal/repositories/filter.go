package repositories

import "reflect"

// matchDoc reports whether a decoded document satisfies every filter
// constraint. Constraints are exact-match, except "tags": a tags filter
// matches when any supplied tag intersects the document's tag set.
func matchDoc(doc map[string]any, filters map[string]any) bool {
	for key, want := range filters {
		if key == "tags" {
			if !matchAnyTag(doc["tags"], want) {
				return false
			}
			continue
		}
		if !reflect.DeepEqual(doc[key], want) {
			return false
		}
	}
	return true
}

func matchAnyTag(have, want any) bool {
	wanted := toStrings(want)
	if len(wanted) == 0 {
		return true
	}

	owned := toStrings(have)
	for _, w := range wanted {
		for _, o := range owned {
			if w == o {
				return true
			}
		}
	}
	return false
}

// toStrings accepts []string from callers and []any from decoded JSON.
func toStrings(v any) []string {
	switch vv := v.(type) {
	case []string:
		return vv
	case []any:
		out := make([]string, 0, len(vv))
		for _, e := range vv {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		return []string{vv}
	default:
		return nil
	}
}
