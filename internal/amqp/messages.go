package amqp

import (
	"encoding/json"
	"time"

	"tally/internal/analytics"
)

// ExportRequestMessage asks the worker to build a filtered report and
// write it out in the requested format. The worker takes its own store
// snapshot, so the message carries only the filter, not the data.
type ExportRequestMessage struct {
	JobID       string               `json:"job_id"`
	Format      analytics.Format     `json:"format"`
	Filter      analytics.FilterSpec `json:"filter"`
	RequestedAt time.Time            `json:"requested_at"`
}

// NewExportRequestMessage creates a message for the given job.
func NewExportRequestMessage(jobID string, format analytics.Format, filter analytics.FilterSpec) *ExportRequestMessage {
	return &ExportRequestMessage{
		JobID:       jobID,
		Format:      format,
		Filter:      filter,
		RequestedAt: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *ExportRequestMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ExportRequestMessageFromJSON creates a message from JSON bytes.
func ExportRequestMessageFromJSON(data []byte) (*ExportRequestMessage, error) {
	var msg ExportRequestMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
