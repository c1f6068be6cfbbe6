// Package queue carries ranking batch jobs from the API to the worker.
package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// MessageVersion is bumped when the payload shape changes.
const MessageVersion = 1

// ErrMissingBatchID indicates a message without the one required field.
var ErrMissingBatchID = errors.New("queue message missing batchId")

// Message asks the worker to process one ranking batch. The payload stays
// minimal on purpose; everything else is read back from the database.
type Message struct {
	BatchID    string    `json:"batchId"`
	RequestID  string    `json:"requestId,omitempty"`
	EnqueuedAt time.Time `json:"enqueuedAt"`
	Version    int       `json:"version"`
}

// NewMessage builds a versioned message stamped with the current time.
func NewMessage(batchID, requestID string) Message {
	return Message{
		BatchID:    batchID,
		RequestID:  requestID,
		EnqueuedAt: time.Now().UTC(),
		Version:    MessageVersion,
	}
}

// Encode serializes the message for transport.
func (m Message) Encode() (string, error) {
	if strings.TrimSpace(m.BatchID) == "" {
		return "", ErrMissingBatchID
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("encode queue message: %w", err)
	}
	return string(raw), nil
}

// Decode parses a transport payload back into a Message.
func Decode(body string) (Message, error) {
	var m Message
	if err := json.Unmarshal([]byte(body), &m); err != nil {
		return Message{}, fmt.Errorf("decode queue message: %w", err)
	}
	if strings.TrimSpace(m.BatchID) == "" {
		return Message{}, ErrMissingBatchID
	}
	return m, nil
}
