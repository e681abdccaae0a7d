package activity

import (
	"context"
	"testing"
)

func TestBuildOptionRegisteredEventCarriesOptionMetadata(t *testing.T) {
	meta := map[string]any{"source": "plugin"}
	event := BuildOptionRegisteredEvent(OptionEventInput{
		CustomID:  " Color ",
		NumericID: 42,
		Kind:      "dropdown",
		Node:      "Appearance",
		Metadata:  meta,
	})

	if event.Verb != VerbOptionRegistered {
		t.Fatalf("expected verb %s got %s", VerbOptionRegistered, event.Verb)
	}
	if event.ObjectType != ObjectOption || event.ObjectID != "Color" {
		t.Fatalf("unexpected object fields: %+v", event)
	}
	if event.Metadata["numeric_id"] != int32(42) || event.Metadata["kind"] != "dropdown" || event.Metadata["node"] != "Appearance" {
		t.Fatalf("unexpected metadata: %+v", event.Metadata)
	}
	if event.Metadata["source"] != "plugin" {
		t.Fatalf("expected caller metadata preserved, got %+v", event.Metadata)
	}
	if _, ok := meta["numeric_id"]; ok {
		t.Fatalf("caller metadata must not be mutated")
	}
	if event.ActorID != "" {
		t.Fatalf("expected no actor on registration, got %q", event.ActorID)
	}
}

func TestBuildValueReceivedEventUsesPlayerAsActor(t *testing.T) {
	event := BuildValueReceivedEvent(OptionEventInput{PlayerID: " p-7 ", CustomID: "Volume", NumericID: 9})
	if event.Verb != VerbOptionValueReceived {
		t.Fatalf("unexpected verb %s", event.Verb)
	}
	if event.ActorID != "p-7" || event.Metadata["player_id"] != "p-7" {
		t.Fatalf("expected player recorded, got %+v", event)
	}
}

func TestBuildIdentifierAssignedEventFallsBackToNumericObjectID(t *testing.T) {
	event := BuildIdentifierAssignedEvent(OptionEventInput{NumericID: 1234})
	if event.ObjectType != ObjectIdentifier || event.ObjectID != "1234" {
		t.Fatalf("unexpected object fields: %+v", event)
	}
}

func TestBuiltEventsPassHookValidation(t *testing.T) {
	capture := &CaptureHook{}
	hooks := Hooks{capture}
	events := []Event{
		BuildOptionRegisteredEvent(OptionEventInput{CustomID: "A", NumericID: 1}),
		BuildOptionUnregisteredEvent(OptionEventInput{CustomID: "A", NumericID: 1}),
		BuildValueReceivedEvent(OptionEventInput{CustomID: "A", NumericID: 1, PlayerID: "p"}),
		BuildIdentifierAssignedEvent(OptionEventInput{CustomID: "A", NumericID: 1}),
	}
	for _, event := range events {
		if err := hooks.Notify(context.Background(), event); err != nil {
			t.Fatalf("notify %s: %v", event.Verb, err)
		}
	}
	want := []string{VerbOptionRegistered, VerbOptionUnregistered, VerbOptionValueReceived, VerbIdentifierAssigned}
	got := capture.Verbs()
	if len(got) != len(want) {
		t.Fatalf("expected %d events, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("event %d: expected %s got %s", i, want[i], got[i])
		}
	}
}
