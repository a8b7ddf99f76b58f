package events

import (
	"testing"
	"time"
)

func TestScoreEventJSONRoundTrip(t *testing.T) {
	at := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)
	ev := NewScoreEvent("Лиза", -2, 7, at)

	body, err := ev.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	got, err := ScoreEventFromJSON(body)
	if err != nil {
		t.Fatalf("ScoreEventFromJSON: %v", err)
	}
	if got.Participant != "Лиза" || got.Delta != -2 || got.Balance != 7 || !got.At.Equal(at) {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestScoreEventFromJSONRejectsGarbage(t *testing.T) {
	if _, err := ScoreEventFromJSON([]byte("not json")); err == nil {
		t.Fatal("expected error for malformed payload")
	}
}
