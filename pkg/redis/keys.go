package redis

import "fmt"

// Key naming conventions for Redis keys.
// All keys follow the pattern: {namespace}:{entity}:{id}
//
// Example: "ms:analytics:song:123" for song 123's analytics

const (
	// Namespace prefix for all keys
	KeyNamespace = "ms" // Music Service
)

// GlobalAnalyticsKey returns the key for the cached platform-wide analytics snapshot.
// Example: ms:analytics:global
func GlobalAnalyticsKey() string {
	return fmt.Sprintf("%s:analytics:global", KeyNamespace)
}

// SongAnalyticsKey returns a key for a song's analytics.
// Example: ms:analytics:song:123
func SongAnalyticsKey(songID string) string {
	return fmt.Sprintf("%s:analytics:song:%s", KeyNamespace, songID)
}

// UserStatsKey returns a key for a user's listening statistics.
// Example: ms:stats:user:123
func UserStatsKey(userID string) string {
	return fmt.Sprintf("%s:stats:user:%s", KeyNamespace, userID)
}

// LockKey returns a key for distributed locks.
// Example: ms:lock:resource:123
func LockKey(resource string) string {
	return fmt.Sprintf("%s:lock:%s", KeyNamespace, resource)
}
