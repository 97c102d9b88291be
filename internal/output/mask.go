package output

import (
	"strings"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
)

// sensitiveAnnotations contain data that must not appear in responses even
// when the enclosing object is not a Secret.
var sensitiveAnnotations = map[string]bool{
	"kubernetes.io/service-account.uid":   true,
	"kubernetes.io/service-account.name":  true,
	"kubernetes.io/service-account-token": true,
}

// MaskSecrets redacts the data and stringData fields of Secret objects and
// known sensitive annotations on any object. The input is not modified.
func MaskSecrets(obj map[string]any) map[string]any {
	if obj == nil {
		return nil
	}

	result := runtime.DeepCopyJSON(obj)
	kind, _ := result["kind"].(string)
	if strings.EqualFold(kind, "Secret") {
		redactKeys(result, "data")
		redactKeys(result, "stringData")
	}
	maskAnnotations(result)
	return result
}

func redactKeys(obj map[string]any, field string) {
	data, ok := obj[field].(map[string]any)
	if !ok {
		return
	}
	masked := make(map[string]any, len(data))
	for key := range data {
		masked[key] = RedactedValue
	}
	obj[field] = masked
}

func maskAnnotations(obj map[string]any) {
	metadata, ok := obj["metadata"].(map[string]any)
	if !ok {
		return
	}
	annotations, ok := metadata["annotations"].(map[string]any)
	if !ok {
		return
	}
	for key := range annotations {
		if sensitiveAnnotations[key] {
			annotations[key] = RedactedValue
		}
	}
}

// IsSecret reports whether the object is a Kubernetes Secret.
func IsSecret(obj map[string]any) bool {
	kind, _ := obj["kind"].(string)
	return strings.EqualFold(kind, "Secret")
}

// Sanitize applies the configured masking and slimming to a single object
// and returns a new Unstructured wrapping the processed payload.
func Sanitize(obj *unstructured.Unstructured, cfg Config) *unstructured.Unstructured {
	if obj == nil {
		return nil
	}
	payload := obj.Object
	if cfg.MaskSecrets {
		payload = MaskSecrets(payload)
	}
	if cfg.SlimOutput {
		payload = SlimResource(payload, cfg.ExcludedFields)
	}
	return &unstructured.Unstructured{Object: payload}
}

// SanitizeList applies Sanitize to every item of a list.
func SanitizeList(items []unstructured.Unstructured, cfg Config) []unstructured.Unstructured {
	result := make([]unstructured.Unstructured, len(items))
	for i := range items {
		result[i] = *Sanitize(&items[i], cfg)
	}
	return result
}
