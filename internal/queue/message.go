package queue

import (
	"encoding/json"
	"time"
)

// MessageVersion is the current render job schema.
const MessageVersion = 1

// Message asks the worker to pre-render the PDF of a generated resume.
type Message struct {
	ResumeID   int64  `json:"resumeId"`
	UserID     int64  `json:"userId"`
	RequestID  string `json:"requestId"`
	EnqueuedAt string `json:"enqueuedAt"`
	Version    int    `json:"version"`
}

// NewRenderMessage builds a render job stamped with now.
func NewRenderMessage(userID, resumeID int64, requestID string, now time.Time) Message {
	return Message{
		ResumeID:   resumeID,
		UserID:     userID,
		RequestID:  requestID,
		EnqueuedAt: now.UTC().Format(time.RFC3339),
		Version:    MessageVersion,
	}
}

// EncodeMessage returns the JSON representation of a message.
func EncodeMessage(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}

// DecodeMessage parses a JSON payload into a Message.
func DecodeMessage(payload []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(payload, &msg); err != nil {
		return Message{}, err
	}
	return msg, nil
}
