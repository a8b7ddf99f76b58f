package events

import (
	"encoding/json"
	"time"
)

// ScoreEvent announces one applied credit or debit to external
// consumers (dashboards, digest tools). It mirrors a history record
// plus the balance that resulted from it.
type ScoreEvent struct {
	Participant string    `json:"participant"`
	Delta       int       `json:"delta"`
	Balance     int       `json:"balance"`
	At          time.Time `json:"at"`
}

func NewScoreEvent(participant string, delta, balance int, at time.Time) *ScoreEvent {
	return &ScoreEvent{
		Participant: participant,
		Delta:       delta,
		Balance:     balance,
		At:          at,
	}
}

// ToJSON converts the event to JSON bytes.
func (e *ScoreEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// ScoreEventFromJSON creates an event from JSON bytes.
func ScoreEventFromJSON(data []byte) (*ScoreEvent, error) {
	var ev ScoreEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}
