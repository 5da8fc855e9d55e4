// Package bridge connects the UI core's outbound ports to the host services.
package bridge

import (
	"fmt"

	"portbridge/internal/domain"
	"portbridge/internal/value"
)

// Outbound channels published by the UI core.
const (
	ChannelSetItem         = "setItem"
	ChannelSetPreventClose = "setPreventClose"
	ChannelSetFavicon      = "setFavicon"
)

// Channels lists every channel the bridge subscribes to.
func Channels() []string {
	return []string{ChannelSetItem, ChannelSetPreventClose, ChannelSetFavicon}
}

// Command is a decoded outbound message. The set of implementations is
// closed: SetItem, SetPreventClose, SetFavicon and Rejected.
type Command interface {
	Channel() string
	command()
}

// SetItem persists Value under Key.
type SetItem struct {
	Key   string
	Value value.Value
}

// SetPreventClose toggles the close confirmation.
type SetPreventClose struct {
	Prevent bool
}

// SetFavicon updates the status indicator.
type SetFavicon struct {
	Status domain.FaviconStatus
}

// Rejected is any payload that did not match its channel's shape.
type Rejected struct {
	Source string
	Reason string
}

func (SetItem) Channel() string         { return ChannelSetItem }
func (SetPreventClose) Channel() string { return ChannelSetPreventClose }
func (SetFavicon) Channel() string      { return ChannelSetFavicon }
func (r Rejected) Channel() string      { return r.Source }

func (SetItem) command()         {}
func (SetPreventClose) command() {}
func (SetFavicon) command()      {}
func (Rejected) command()        {}

// DecodeCommand validates a raw payload from channel. It never fails:
// anything malformed comes back as Rejected.
func DecodeCommand(channel string, payload []any) Command {
	reject := func(format string, args ...any) Command {
		return Rejected{Source: channel, Reason: fmt.Sprintf(format, args...)}
	}

	switch channel {
	case ChannelSetItem, ChannelSetPreventClose, ChannelSetFavicon:
	default:
		return reject("unknown channel")
	}
	if len(payload) != 1 {
		return reject("expected exactly one payload argument, got %d", len(payload))
	}
	arg := payload[0]

	switch channel {
	case ChannelSetItem:
		obj, ok := arg.(map[string]any)
		if !ok {
			return reject("payload must be an object, got %T", arg)
		}
		key, ok := obj["key"].(string)
		if !ok {
			return reject("key must be a string, got %T", obj["key"])
		}
		raw, ok := obj["value"]
		if !ok {
			return reject("value is missing")
		}
		v, err := value.FromAny(raw)
		if err != nil {
			return reject("value: %v", err)
		}
		return SetItem{Key: key, Value: v}

	case ChannelSetPreventClose:
		prevent, ok := arg.(bool)
		if !ok {
			return reject("payload must be a boolean, got %T", arg)
		}
		return SetPreventClose{Prevent: prevent}

	default: // ChannelSetFavicon
		name, ok := arg.(string)
		if !ok {
			return reject("payload must be a string, got %T", arg)
		}
		status, err := domain.ParseFaviconStatus(name)
		if err != nil {
			return reject("%v", err)
		}
		return SetFavicon{Status: status}
	}
}
