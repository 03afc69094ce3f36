package pubsub

import (
	"context"
	"testing"
	"time"
)

func TestNewEnvelopeStampsMeta(t *testing.T) {
	t.Parallel()

	before := time.Now().UTC()
	env := NewEnvelope(TypeMessageProcessed, MessageProcessed{ThreadID: "t1", EventID: "i1"})
	after := time.Now().UTC()

	if env.Meta.ID == "" {
		t.Fatal("Meta.ID is empty, want a generated id")
	}
	if env.Meta.Type != TypeMessageProcessed {
		t.Fatalf("Meta.Type = %q, want %q", env.Meta.Type, TypeMessageProcessed)
	}
	if env.Meta.Producer != "pytaibot" {
		t.Fatalf("Meta.Producer = %q, want pytaibot", env.Meta.Producer)
	}
	if env.Meta.Time.Before(before) || env.Meta.Time.After(after) {
		t.Fatalf("Meta.Time = %v, want between %v and %v", env.Meta.Time, before, after)
	}
}

func TestNewEnvelopeUniqueIDs(t *testing.T) {
	t.Parallel()

	a := NewEnvelope(TypeDispatchFailed, nil)
	b := NewEnvelope(TypeDispatchFailed, nil)
	if a.Meta.ID == b.Meta.ID {
		t.Fatalf("Meta.ID = %q twice, want unique ids", a.Meta.ID)
	}
}

func TestNopPublisher(t *testing.T) {
	t.Parallel()

	var p Publisher = Nop{}
	if err := p.Publish(context.Background(), "any.key", NewEnvelope(TypeDeliveryFailed, nil)); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
}
