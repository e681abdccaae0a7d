package activity

import (
	"strconv"
	"strings"
	"time"
)

// Verbs emitted by the option service.
const (
	VerbOptionRegistered    = "option.registered"
	VerbOptionUnregistered  = "option.unregistered"
	VerbOptionValueReceived = "option.value_received"
	VerbIdentifierAssigned  = "identifier.assigned"
)

// Object types carried by option events.
const (
	ObjectOption     = "option"
	ObjectIdentifier = "identifier"
)

// OptionEventInput describes the common fields for option lifecycle events.
type OptionEventInput struct {
	PlayerID   string
	CustomID   string
	NumericID  int32
	Kind       string
	Node       string
	Channel    string
	Metadata   map[string]any
	OccurredAt time.Time
}

// BuildOptionRegisteredEvent reports an option delivered to players.
func BuildOptionRegisteredEvent(input OptionEventInput) Event {
	return buildOptionEvent(VerbOptionRegistered, ObjectOption, input)
}

// BuildOptionUnregisteredEvent reports an option retracted from players.
func BuildOptionUnregisteredEvent(input OptionEventInput) Event {
	return buildOptionEvent(VerbOptionUnregistered, ObjectOption, input)
}

// BuildValueReceivedEvent reports a player value update for an option.
func BuildValueReceivedEvent(input OptionEventInput) Event {
	return buildOptionEvent(VerbOptionValueReceived, ObjectOption, input)
}

// BuildIdentifierAssignedEvent reports a first-time numeric id assignment.
func BuildIdentifierAssignedEvent(input OptionEventInput) Event {
	return buildOptionEvent(VerbIdentifierAssigned, ObjectIdentifier, input)
}

func buildOptionEvent(verb, objectType string, input OptionEventInput) Event {
	metadata := cloneMap(input.Metadata)
	set := func(key string, value any) {
		if metadata == nil {
			metadata = map[string]any{}
		}
		metadata[key] = value
	}
	customID := strings.TrimSpace(input.CustomID)
	if customID != "" {
		set("custom_id", customID)
	}
	set("numeric_id", input.NumericID)
	if kind := strings.TrimSpace(input.Kind); kind != "" {
		set("kind", kind)
	}
	if node := strings.TrimSpace(input.Node); node != "" {
		set("node", node)
	}
	if player := strings.TrimSpace(input.PlayerID); player != "" {
		set("player_id", player)
	}

	objectID := customID
	if objectID == "" {
		objectID = strconv.FormatInt(int64(input.NumericID), 10)
	}

	return Event{
		Verb:       verb,
		ActorID:    strings.TrimSpace(input.PlayerID),
		ObjectType: objectType,
		ObjectID:   objectID,
		Channel:    strings.TrimSpace(input.Channel),
		Metadata:   metadata,
		OccurredAt: input.OccurredAt,
	}
}
