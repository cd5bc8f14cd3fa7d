package utils

import "strings"

// GitDirectoryName is the name of the Git repository directory.
const GitDirectoryName = ".git"

// DeduplicateStrings removes duplicate values from a slice while preserving order.
// The first occurrence of each unique value is kept.
func DeduplicateStrings(values []string) []string {
	encounteredValues := make(map[string]struct{})
	result := make([]string, 0, len(values))
	for _, value := range values {
		if _, exists := encounteredValues[value]; !exists {
			encounteredValues[value] = struct{}{}
			result = append(result, value)
		}
	}
	return result
}

// NormalizeExtension lower-cases an extension and guarantees a leading dot,
// so that user-supplied values such as "PY" and ".py" compare equal.
// An empty input stays empty.
func NormalizeExtension(extension string) string {
	trimmedExtension := strings.TrimSpace(strings.ToLower(extension))
	if trimmedExtension == "" {
		return ""
	}
	if !strings.HasPrefix(trimmedExtension, ".") {
		return "." + trimmedExtension
	}
	return trimmedExtension
}
