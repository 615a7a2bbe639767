package queue

import "encoding/json"

// MessageVersion is the current LearnMessage schema version.
const MessageVersion = 1

// LearnMessage carries a resolved VOC to the learning worker.
type LearnMessage struct {
	MessageID  string `json:"messageId"`
	VOCID      string `json:"vocId"`
	Title      string `json:"title"`
	Content    string `json:"content"`
	Resolution string `json:"resolution"`
	Category   string `json:"category"`
	RequestID  string `json:"requestId,omitempty"`
	EnqueuedAt string `json:"enqueuedAt"`
	Version    int    `json:"version"`
}

// EncodeMessage returns the JSON representation of a message.
func EncodeMessage(msg LearnMessage) ([]byte, error) {
	return json.Marshal(msg)
}

// DecodeMessage parses a JSON payload into a LearnMessage.
func DecodeMessage(payload []byte) (LearnMessage, error) {
	var msg LearnMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		return LearnMessage{}, err
	}
	return msg, nil
}
