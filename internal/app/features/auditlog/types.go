// internal/app/features/auditlog/types.go
package auditlog

import "time"

// item is one audit event as returned by the API.
type item struct {
	ID        string            `json:"id"`
	Timestamp time.Time         `json:"timestamp"`
	Category  string            `json:"category"`
	EventType string            `json:"event_type"`
	UserID    string            `json:"user_id,omitempty"`
	ClanID    string            `json:"clan_id,omitempty"`
	Details   map[string]string `json:"details,omitempty"`
}

// listResponse is the JSON body of GET /api/audit.
type listResponse struct {
	Items      []item `json:"items"`
	Total      int64  `json:"total"`
	HasNext    bool   `json:"has_next"`
	NextOffset int    `json:"next_offset,omitempty"`
}
