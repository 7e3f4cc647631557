package cache

import (
	"fmt"
	"regexp"
)

var unsafeKeyChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// GenerateKey creates a cache key with prefix and ID.
func GenerateKey(prefix string, id string) string {
	return fmt.Sprintf("%s:%s", prefix, id)
}

// GenerateKeyWithParams creates a cache key with multiple parameters.
func GenerateKeyWithParams(prefix string, params ...interface{}) string {
	key := prefix
	for _, param := range params {
		key = fmt.Sprintf("%s:%v", key, param)
	}
	return key
}

// SanitizeKey maps a cache key to a filesystem-safe name. Symbols such as
// "^GSPC" or "GC=F" appear in keys, so anything outside [a-zA-Z0-9._-]
// becomes an underscore.
func SanitizeKey(key string) string {
	return unsafeKeyChars.ReplaceAllString(key, "_")
}

// BuildPattern creates a prefix pattern for key matching.
func BuildPattern(prefix string) string {
	return fmt.Sprintf("%s*", prefix)
}
