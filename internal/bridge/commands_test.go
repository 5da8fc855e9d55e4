package bridge_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portbridge/internal/bridge"
	"portbridge/internal/domain"
	"portbridge/internal/value"
)

func TestDecodeCommand_SetItem(t *testing.T) {
	cmd := bridge.DecodeCommand(bridge.ChannelSetItem, []any{
		map[string]any{"key": "settings", "value": map[string]any{"theme": "dark"}},
	})

	set, ok := cmd.(bridge.SetItem)
	require.True(t, ok, "got %#v", cmd)
	assert.Equal(t, "settings", set.Key)
	assert.True(t, value.Equal(value.Mapping{"theme": value.String("dark")}, set.Value))
}

func TestDecodeCommand_SetItemNullValue(t *testing.T) {
	cmd := bridge.DecodeCommand(bridge.ChannelSetItem, []any{
		map[string]any{"key": "anything", "value": nil},
	})

	set, ok := cmd.(bridge.SetItem)
	require.True(t, ok, "got %#v", cmd)
	assert.Equal(t, value.KindNull, set.Value.Kind())
}

func TestDecodeCommand_SetPreventClose(t *testing.T) {
	cmd := bridge.DecodeCommand(bridge.ChannelSetPreventClose, []any{true})
	assert.Equal(t, bridge.SetPreventClose{Prevent: true}, cmd)
}

func TestDecodeCommand_SetFavicon(t *testing.T) {
	assert.Equal(t, bridge.SetFavicon{Status: domain.FaviconPlay},
		bridge.DecodeCommand(bridge.ChannelSetFavicon, []any{"play"}))
	assert.Equal(t, bridge.SetFavicon{Status: domain.FaviconStop},
		bridge.DecodeCommand(bridge.ChannelSetFavicon, []any{"stop"}))
}

func TestDecodeCommand_Rejections(t *testing.T) {
	cases := []struct {
		name    string
		channel string
		payload []any
	}{
		{"unknown channel", "setTitle", []any{"x"}},
		{"no payload", bridge.ChannelSetFavicon, nil},
		{"two payloads", bridge.ChannelSetPreventClose, []any{true, false}},
		{"item not object", bridge.ChannelSetItem, []any{"settings"}},
		{"item key not string", bridge.ChannelSetItem, []any{map[string]any{"key": 1.0, "value": 1.0}}},
		{"item value missing", bridge.ChannelSetItem, []any{map[string]any{"key": "settings"}}},
		{"item value unsupported", bridge.ChannelSetItem, []any{map[string]any{"key": "k", "value": struct{}{}}}},
		{"prevent close not bool", bridge.ChannelSetPreventClose, []any{"true"}},
		{"favicon not string", bridge.ChannelSetFavicon, []any{1.0}},
		{"favicon unknown", bridge.ChannelSetFavicon, []any{"pause"}},
		{"favicon wrong case", bridge.ChannelSetFavicon, []any{"Play"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cmd := bridge.DecodeCommand(tc.channel, tc.payload)
			rejected, ok := cmd.(bridge.Rejected)
			require.True(t, ok, "got %#v", cmd)
			assert.Equal(t, tc.channel, rejected.Channel())
			assert.NotEmpty(t, rejected.Reason)
		})
	}
}
