package amqp

import (
	"encoding/json"
	"time"
)

// BudgetAlertMessage notifies downstream consumers that a recorded expense
// pushed a category's running total past its configured ceiling. The expense
// itself is already committed; this is advisory only.
type BudgetAlertMessage struct {
	UserID       int64     `json:"user_id"`
	Category     string    `json:"category"`
	SpentCents   int64     `json:"spent_cents"`
	CeilingCents int64     `json:"ceiling_cents"`
	Message      string    `json:"message"`
	Timestamp    time.Time `json:"timestamp"`
}

// NewBudgetAlertMessage builds an alert for one user+category breach.
func NewBudgetAlertMessage(userID int64, category string, spentCents, ceilingCents int64) *BudgetAlertMessage {
	return &BudgetAlertMessage{
		UserID:       userID,
		Category:     category,
		SpentCents:   spentCents,
		CeilingCents: ceilingCents,
		Message:      "budget exceeded for " + category,
		Timestamp:    time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *BudgetAlertMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// BudgetAlertMessageFromJSON decodes a message from JSON bytes.
func BudgetAlertMessageFromJSON(data []byte) (*BudgetAlertMessage, error) {
	var msg BudgetAlertMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
