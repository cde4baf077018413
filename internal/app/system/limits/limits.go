// internal/app/system/limits/limits.go
package limits

// Request body size limits for the JSON API.
const (
	// MaxJSONBody caps every decoded request body. Game payloads are a
	// handful of short fields, so anything larger is rejected outright.
	MaxJSONBody = 64 << 10 // 64 KB
)
