package output

import (
	"strings"

	"k8s.io/apimachinery/pkg/runtime"
)

// SlimResource removes verbose fields from a resource payload. The input is
// not modified. Paths use dot notation; map keys that themselves contain
// dots (annotation names) are matched as literal keys.
func SlimResource(obj map[string]any, excludedFields []string) map[string]any {
	if obj == nil {
		return nil
	}
	if len(excludedFields) == 0 {
		excludedFields = DefaultExcludedFields()
	}

	result := runtime.DeepCopyJSON(obj)
	for _, field := range excludedFields {
		removeField(result, strings.Split(field, "."))
	}
	return result
}

func removeField(obj map[string]any, parts []string) {
	if obj == nil || len(parts) == 0 {
		return
	}
	// Prefer the longest literal key present at this level so paths like
	// metadata.annotations.<key-with-dots> resolve the annotation name as
	// a single key.
	for i := len(parts); i >= 1; i-- {
		key := strings.Join(parts[:i], ".")
		val, ok := obj[key]
		if !ok {
			continue
		}
		if i == len(parts) {
			delete(obj, key)
			return
		}
		if child, ok := val.(map[string]any); ok {
			removeField(child, parts[i:])
		}
		return
	}
}
