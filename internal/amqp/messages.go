package amqp

import (
	"encoding/json"
	"time"
)

// CollectionChangedMessage announces that a collection was rewritten.
// It carries no records; consumers reload from the store if they care.
type CollectionChangedMessage struct {
	Collection string    `json:"collection"`
	Count      int       `json:"count"`
	Version    int64     `json:"version"`
	Timestamp  time.Time `json:"timestamp"`
}

func NewCollectionChangedMessage(collection string, count int, version int64) *CollectionChangedMessage {
	return &CollectionChangedMessage{
		Collection: collection,
		Count:      count,
		Version:    version,
		Timestamp:  time.Now(),
	}
}

func (m *CollectionChangedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// CollectionChangedMessageFromJSON decodes a message body.
func CollectionChangedMessageFromJSON(data []byte) (*CollectionChangedMessage, error) {
	var msg CollectionChangedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
