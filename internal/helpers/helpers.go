// Package helpers provides shared utility functions used across the application.
// These are generic helpers that don't belong to a specific domain package.
package helpers

import "strings"

// TruncateText shortens text to the specified maximum length, adding "..." if truncated.
// Returns empty string if input is empty or only whitespace.
// A maxLen too small to hold the ellipsis leaves the text unchanged.
func TruncateText(text string, maxLen int) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	return truncate(text, maxLen)
}

// TruncateURL shortens a URL to the specified maximum length for display purposes.
// Adds "..." suffix if the URL exceeds maxLen.
func TruncateURL(url string, maxLen int) string {
	return truncate(url, maxLen)
}

func truncate(s string, maxLen int) string {
	if maxLen < 4 || len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// CountUniqueStrings returns the number of unique strings in a slice.
// Used to count distinct remote references across converted documents.
func CountUniqueStrings(items []string) int {
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		seen[item] = true
	}
	return len(seen)
}
