package activity

import (
	"strings"
	"time"
)

// FlagEventInput describes the common fields for flag lifecycle
// events. FlagName/Filename/TypeName/Retired apply to registration
// events; SaverID/FlagCount apply to saver events.
type FlagEventInput struct {
	ActorID        string
	UserID         string
	TenantID       string
	ObjectID       string
	Channel        string
	DefinitionCode string
	Recipients     []string
	Metadata       map[string]any
	FlagName       string
	Filename       string
	TypeName       string
	Retired        bool
	SaverID        string
	FlagCount      int
	OccurredAt     time.Time
}

// BuildFlagRegisteredEvent constructs a normalized activity event for
// a live flag registration.
func BuildFlagRegisteredEvent(input FlagEventInput) Event {
	return buildFlagEvent("flag.registered", "flag", input)
}

// BuildFlagRetiredEvent constructs a normalized activity event for a
// tombstone registration.
func BuildFlagRetiredEvent(input FlagEventInput) Event {
	return buildFlagEvent("flag.retired", "flag", input)
}

// BuildSaverCapturedEvent constructs an activity event describing a
// snapshot capture.
func BuildSaverCapturedEvent(input FlagEventInput) Event {
	return buildFlagEvent("saver.captured", "saver", input)
}

// BuildSaverRestoredEvent constructs an activity event describing a
// snapshot restore.
func BuildSaverRestoredEvent(input FlagEventInput) Event {
	return buildFlagEvent("saver.restored", "saver", input)
}

// BuildSaverDiscardedEvent constructs an activity event describing a
// discarded snapshot.
func BuildSaverDiscardedEvent(input FlagEventInput) Event {
	return buildFlagEvent("saver.discarded", "saver", input)
}

func buildFlagEvent(verb, objectType string, input FlagEventInput) Event {
	metadata := cloneMap(input.Metadata)
	if input.FlagName != "" {
		metadata = ensureMetadata(metadata)
		metadata["flag_name"] = input.FlagName
	}
	if input.Filename != "" {
		metadata = ensureMetadata(metadata)
		metadata["filename"] = input.Filename
	}
	if input.TypeName != "" {
		metadata = ensureMetadata(metadata)
		metadata["type"] = input.TypeName
		metadata["retired"] = input.Retired
	}
	if input.SaverID != "" {
		metadata = ensureMetadata(metadata)
		metadata["saver_id"] = input.SaverID
		metadata["flag_count"] = input.FlagCount
	}

	recipients := input.Recipients
	if len(recipients) > 0 {
		recipients = append([]string{}, input.Recipients...)
	}

	objectID := strings.TrimSpace(input.ObjectID)
	if objectID == "" {
		objectID = strings.TrimSpace(input.FlagName)
	}
	if objectID == "" {
		objectID = strings.TrimSpace(input.SaverID)
	}
	if objectID == "" {
		objectID = objectType
	}

	return Event{
		Verb:           verb,
		ActorID:        strings.TrimSpace(input.ActorID),
		UserID:         strings.TrimSpace(input.UserID),
		TenantID:       strings.TrimSpace(input.TenantID),
		ObjectType:     objectType,
		ObjectID:       objectID,
		Channel:        strings.TrimSpace(input.Channel),
		DefinitionCode: strings.TrimSpace(input.DefinitionCode),
		Recipients:     recipients,
		Metadata:       metadata,
		OccurredAt:     input.OccurredAt,
	}
}

func ensureMetadata(meta map[string]any) map[string]any {
	if meta == nil {
		return map[string]any{}
	}
	return meta
}
