package amqp

import (
	"encoding/json"
	"time"
)

// InvoiceIngestMessage carries an uploaded invoice file to the ingestion
// worker. Content is the raw CSV payload; the plan name encodes the
// carrier, month and year.
type InvoiceIngestMessage struct {
	PlanName  string    `json:"plan_name"`
	FileName  string    `json:"file_name"`
	Content   []byte    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// NewInvoiceIngestMessage creates an ingest message for an uploaded file
func NewInvoiceIngestMessage(planName, fileName string, content []byte) *InvoiceIngestMessage {
	return &InvoiceIngestMessage{
		PlanName:  planName,
		FileName:  fileName,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *InvoiceIngestMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// FromJSON creates a message from JSON bytes
func InvoiceIngestMessageFromJSON(data []byte) (*InvoiceIngestMessage, error) {
	var msg InvoiceIngestMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
