package amqp

import (
	"testing"
	"time"
)

func TestBudgetAlertMessageRoundTrip(t *testing.T) {
	msg := NewBudgetAlertMessage(7, "Food", 11000, 10000)

	if msg.Message != "budget exceeded for Food" {
		t.Errorf("message = %q", msg.Message)
	}
	if msg.Timestamp.IsZero() {
		t.Error("timestamp should be set")
	}

	body, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("to json: %v", err)
	}

	back, err := BudgetAlertMessageFromJSON(body)
	if err != nil {
		t.Fatalf("from json: %v", err)
	}
	if back.UserID != 7 || back.Category != "Food" || back.SpentCents != 11000 || back.CeilingCents != 10000 {
		t.Errorf("round trip mismatch: %+v", back)
	}
	if !back.Timestamp.Truncate(time.Millisecond).Equal(msg.Timestamp.Truncate(time.Millisecond)) {
		t.Errorf("timestamp mismatch: %v vs %v", back.Timestamp, msg.Timestamp)
	}
}

func TestBudgetAlertMessageFromJSONInvalid(t *testing.T) {
	if _, err := BudgetAlertMessageFromJSON([]byte(`not json`)); err == nil {
		t.Error("invalid JSON should fail")
	}
}
