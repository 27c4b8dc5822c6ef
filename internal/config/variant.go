package config

import (
	"fmt"
	"strings"
)

const (
	VariantFull = "full"
	VariantLite = "lite"
)

// NormalizeVariant canonicalizes a model variant name. The names of the
// original SavedModel and TFLite exports are accepted as aliases.
func NormalizeVariant(raw string) (string, error) {
	variant := strings.ToLower(strings.TrimSpace(raw))
	switch variant {
	case "", VariantFull, "saved", "savedmodel":
		return VariantFull, nil
	case VariantLite, "tflite":
		return VariantLite, nil
	default:
		return "", fmt.Errorf("invalid variant %q (expected %s|%s)", raw, VariantFull, VariantLite)
	}
}
