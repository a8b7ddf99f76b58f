package core

import (
	"errors"
	"time"
)

const (
	Credit IntentKind = "credit"
	Debit  IntentKind = "debit"
)

type (
	IntentKind string

	// Participant is the canonical display name used as the storage key,
	// distinct from any alias used to refer to them in chat.
	Participant string

	// Intent is a command extracted from a chat message. Amount is always
	// positive; the sign is carried by Kind.
	Intent struct {
		Kind      IntentKind
		Amount    int
		RawTarget string
	}

	// HistoryRecord is one credit or debit applied to a participant.
	// Records are append-only and ordered by insertion.
	HistoryRecord struct {
		Participant Participant
		Delta       int
		At          time.Time
	}
)

var (
	ErrEmptyRoster        = errors.New("roster has no participants")
	ErrUnknownParticipant = errors.New("unknown participant")
	ErrInvalidAmount      = errors.New("invalid amount")
)

// Delta returns the signed ledger delta for the intent.
func (i Intent) Delta() int {
	if i.Kind == Debit {
		return -i.Amount
	}
	return i.Amount
}

func (i Intent) Validate() error {
	if i.Amount <= 0 {
		return ErrInvalidAmount
	}
	switch i.Kind {
	case Credit, Debit:
	default:
		return errors.New("invalid intent kind")
	}
	return nil
}
