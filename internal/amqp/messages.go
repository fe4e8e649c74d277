package amqp

import (
	"encoding/json"
	"time"
)

// SnapshotRequestMessage asks the worker to recompute one user's
// projection snapshot. It carries only the user ID and horizon; the
// worker reads profile, assets, goals and transactions from the
// database when it handles the message.
type SnapshotRequestMessage struct {
	UserID       string    `json:"userId"`
	HorizonYears int       `json:"horizonYears"`
	Timestamp    time.Time `json:"timestamp"`
}

func NewSnapshotRequestMessage(userID string, horizonYears int) *SnapshotRequestMessage {
	return &SnapshotRequestMessage{
		UserID:       userID,
		HorizonYears: horizonYears,
		Timestamp:    time.Now(),
	}
}

func (m *SnapshotRequestMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func SnapshotRequestMessageFromJSON(data []byte) (*SnapshotRequestMessage, error) {
	var msg SnapshotRequestMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// SnapshotReadyMessage announces that a fresh snapshot has been stored.
type SnapshotReadyMessage struct {
	UserID        string    `json:"userId"`
	FinalNetWorth int64     `json:"finalNetWorth"`
	Timestamp     time.Time `json:"timestamp"`
}

func NewSnapshotReadyMessage(userID string, finalNetWorth int64) *SnapshotReadyMessage {
	return &SnapshotReadyMessage{
		UserID:        userID,
		FinalNetWorth: finalNetWorth,
		Timestamp:     time.Now(),
	}
}

func (m *SnapshotReadyMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func SnapshotReadyMessageFromJSON(data []byte) (*SnapshotReadyMessage, error) {
	var msg SnapshotReadyMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
