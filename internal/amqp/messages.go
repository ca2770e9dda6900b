package amqp

import (
	"encoding/json"
	"time"

	"ledger/internal/core"
)

// BudgetAlertMessage is published when an expense pushes a month's spend
// above its budget. Amounts are in cents.
type BudgetAlertMessage struct {
	UserID     int64     `json:"user_id"`
	Category   string    `json:"category"`
	Month      string    `json:"month"`
	LimitCents int64     `json:"limit_cents"`
	SpentCents int64     `json:"spent_cents"`
	Timestamp  time.Time `json:"timestamp"`
}

// NewBudgetAlertMessage builds a message from an exceeded budget check
func NewBudgetAlertMessage(check core.BudgetCheck) *BudgetAlertMessage {
	return &BudgetAlertMessage{
		UserID:     check.UserID,
		Category:   check.Category,
		Month:      check.Month,
		LimitCents: check.Limit.Cents,
		SpentCents: check.Spent.Cents,
		Timestamp:  time.Now(),
	}
}

// Check converts the message back into the budget check it describes
func (m *BudgetAlertMessage) Check() core.BudgetCheck {
	return core.BudgetCheck{
		UserID:   m.UserID,
		Category: m.Category,
		Month:    m.Month,
		Found:    true,
		Limit:    core.Money{Cents: m.LimitCents},
		Spent:    core.Money{Cents: m.SpentCents},
	}
}

// ToJSON converts the message to JSON bytes
func (m *BudgetAlertMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// BudgetAlertMessageFromJSON creates a message from JSON bytes
func BudgetAlertMessageFromJSON(data []byte) (*BudgetAlertMessage, error) {
	var msg BudgetAlertMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
