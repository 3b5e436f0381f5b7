package kafka

import "time"

// TableChangedEvent announces that rows of a collection table were written.
type TableChangedEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Table     string    `json:"table"`
	Source    string    `json:"source"`
	Timestamp time.Time `json:"timestamp"`
}

// Event types
const (
	EventTypeTableChanged = "table.changed"
)

// Kafka topics
const (
	TopicTableChanges = "fabstock-table-changes"
)
