package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"portbridge/internal/value"
)

// ItemView describes one stored entry. Value is written whenever the entry
// decodes, including a stored null.
type ItemView struct {
	Key       string `json:"key"`
	Raw       string `json:"raw,omitempty"`
	Value     any    `json:"-"`
	Decodable bool   `json:"decodable"`
	Error     string `json:"error,omitempty"`
}

func (v ItemView) MarshalJSON() ([]byte, error) {
	type plain ItemView
	if !v.Decodable {
		return json.Marshal(plain(v))
	}
	return json.Marshal(struct {
		plain
		Value any `json:"value"`
	}{plain(v), v.Value})
}

// ItemSummary is one line of list_items.
type ItemSummary struct {
	Key       string `json:"key"`
	Decodable bool   `json:"decodable"`
	Error     string `json:"error,omitempty"`
}

func (s *Server) registerStorageTools() {
	s.mcp.AddTool(mcp.NewTool("list_items",
		mcp.WithDescription("List every persisted key and whether its value decodes"),
	), s.handleListItems)

	s.mcp.AddTool(mcp.NewTool("get_item",
		mcp.WithDescription("Read the raw and decoded value stored under a key"),
		mcp.WithString("key", mcp.Description("Storage key"), mcp.Required()),
	), s.handleGetItem)

	s.mcp.AddTool(mcp.NewTool("set_item",
		mcp.WithDescription("Overwrite the value stored under a key. The running UI sees it on its next launch."),
		mcp.WithString("key", mcp.Description("Storage key"), mcp.Required()),
		mcp.WithString("valueJSON", mcp.Description("New value as a JSON document"), mcp.Required()),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleSetItem)

	s.mcp.AddTool(mcp.NewTool("get_flags",
		mcp.WithDescription("Show the startup flags the UI would be constructed with right now"),
	), s.handleGetFlags)
}

func (s *Server) handleListItems(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	keys, err := s.items.Keys()
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	out := make([]ItemSummary, 0, len(keys))
	for _, k := range keys {
		view, err := s.itemView(k)
		if err != nil {
			return nil, err
		}
		out = append(out, ItemSummary{Key: view.Key, Decodable: view.Decodable, Error: view.Error})
	}
	return jsonResult(out)
}

func (s *Server) handleGetItem(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	key, _ := args["key"].(string)
	if key == "" {
		return nil, fmt.Errorf("key is required")
	}

	view, err := s.itemView(key)
	if err != nil {
		return nil, err
	}
	return jsonResult(view)
}

func (s *Server) handleSetItem(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	key, _ := args["key"].(string)
	valueJSON, _ := args["valueJSON"].(string)
	if key == "" || valueJSON == "" {
		return nil, fmt.Errorf("key and valueJSON are required")
	}

	v, err := value.Decode(valueJSON)
	if err != nil {
		return nil, fmt.Errorf("parse valueJSON: %w", err)
	}
	if err := s.storage.SetItem(key, v); err != nil {
		return nil, err
	}
	s.log.Info(fmt.Sprintf("[MCP] set_item %s (%s)", key, v.Kind()))
	return textResult(fmt.Sprintf("Stored %s (%s)", key, v.Kind())), nil
}

func (s *Server) handleGetFlags(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snap := s.hydrator.Hydrate(s.keys)

	absent := []string{}
	for _, k := range snap.Keys() {
		if _, ok := snap.Get(k); !ok {
			absent = append(absent, string(k))
		}
	}
	return jsonResult(map[string]any{
		"flags":  snap.Flags(),
		"absent": absent,
	})
}

func (s *Server) itemView(key string) (ItemView, error) {
	raw, ok, err := s.items.GetItem(key)
	if err != nil {
		return ItemView{}, fmt.Errorf("get item: %w", err)
	}
	if !ok {
		return ItemView{Key: key, Error: "not stored"}, nil
	}

	view := ItemView{Key: key, Raw: raw}
	v, err := value.Decode(raw)
	if err != nil {
		view.Error = err.Error()
		return view, nil
	}
	view.Decodable = true
	view.Value = value.ToAny(v)
	return view, nil
}
