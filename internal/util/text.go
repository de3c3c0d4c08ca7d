package util

import "strings"

// SanitizePostgresText strips byte sequences Postgres text columns reject.
// Relationship evidence is cut from scraped web articles and occasionally
// carries stray null bytes or truncated multi-byte runes.
func SanitizePostgresText(value string) string {
	if value == "" {
		return value
	}

	sanitized := strings.ReplaceAll(value, "\x00", "")
	return strings.ToValidUTF8(sanitized, "")
}
