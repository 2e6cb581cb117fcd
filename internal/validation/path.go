package validation

import (
	"encoding/json"
	"regexp"
	"strings"
)

// indexPattern matches "[0]" or "[key]" segments produced by validator and
// mapstructure.
var indexPattern = regexp.MustCompile(`\[([^\]]+)\]`)

// dotted rewrites "talks[0].title" as "talks.0.title".
func dotted(path string) string {
	return strings.TrimPrefix(indexPattern.ReplaceAllString(path, ".$1"), ".")
}

// joinPath joins non-empty segments with ".".
func joinPath(segments ...string) string {
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ".")
}

// namespacePath strips the leading struct name from a validator namespace.
//
//	"CreateSpeakerRequest.socials[0].url" -> "socials.0.url"
func namespacePath(namespace string) string {
	if i := strings.Index(namespace, "."); i >= 0 {
		namespace = namespace[i+1:]
	} else {
		return ""
	}
	return dotted(namespace)
}

// coveredBy reports whether path equals or is nested under any of the
// already-reported paths.
func coveredBy(reported map[string]bool, path string) bool {
	for p := range reported {
		if p == path || p == "" || strings.HasPrefix(path, p+".") {
			return true
		}
	}
	return false
}

// jsonTypeOf names the JSON type of a decoded value.
func jsonTypeOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, float32, int, int32, int64, json.Number:
		return "number"
	default:
		return "unknown"
	}
}

// cloneJSON deep-copies maps and slices of a decoded JSON value so schemas
// that apply defaults never touch the caller's value.
func cloneJSON(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = cloneJSON(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneJSON(item)
		}
		return out
	default:
		return val
	}
}
