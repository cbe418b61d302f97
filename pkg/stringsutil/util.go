package stringsutil

import "strings"

func RemoveEmptyStrings(slice []string) []string {
	var result []string

	for _, s := range slice {
		if s != "" {
			result = append(result, s)
		}
	}

	return result
}

// SplitTrim splits s on sep, trims every part and drops empty ones.
func SplitTrim(s, sep string) []string {
	parts := strings.Split(s, sep)
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return RemoveEmptyStrings(parts)
}
